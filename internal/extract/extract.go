// Package extract turns free-form bank statement text into shaped
// transaction rows via Gemini. The model output is treated as hostile
// input: fenced, truncated, or partially malformed JSON is salvaged
// object by object rather than rejected wholesale.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/syaprakli/bina-yonetim/internal/common"
	"github.com/syaprakli/bina-yonetim/internal/importer"
	"github.com/syaprakli/bina-yonetim/internal/model"
)

// DefaultModel is the Gemini model used when the config names none.
const DefaultModel = "gemini-2.0-flash"

// chunkSize is the per-request text budget. Statements longer than
// this are split on line boundaries and extracted chunk by chunk.
const chunkSize = 15000

// Extractor sends statement text to Gemini and parses the replies.
type Extractor struct {
	client *genai.Client
	model  string
}

// New creates an Extractor. The API key comes from the environment
// unless set in cfg; model falls back to DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Extractor, error) {
	cfg := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
		cfg.Backend = genai.BackendGeminiAPI
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Extractor{client: client, model: model}, nil
}

// DirectoryContext renders the resident directory for the prompt so
// the model can attribute payments to unit numbers.
func DirectoryContext(residents []model.Resident) string {
	var b strings.Builder
	for _, r := range residents {
		fmt.Fprintf(&b, "(Apt: %d) %s", r.DoorNumber, r.FullName)
		if r.Residency == model.ResidencyTenant && r.OwnerName != "" {
			fmt.Fprintf(&b, ", Owner: %s", r.OwnerName)
		}
		b.WriteString(" | ")
	}
	return b.String()
}

func buildPrompt(directory, chunk string) string {
	return "Sen bir apartman yönetim asistanısın. Aşağıdaki banka ekstresi metnindeki " +
		"TÜM işlemleri çıkar.\n\n" +
		"Apartman sakinleri listesi:\n" + directory + "\n\n" +
		"Kurallar:\n" +
		"- SADECE geçerli bir JSON dizisi döndür. Markdown, açıklama, kod bloğu YOK.\n" +
		"- Her işlem şu alanları içermeli:\n" +
		"  \"date\": \"GG.AA.YYYY\", \"description\": metin, \"amount\": sayı,\n" +
		"  \"type\": \"income\" veya \"expense\",\n" +
		"  \"apartmentNo\": gönderen sakin listesindeyse daire numarası, değilse boş \"\".\n" +
		"- Gelen havale/EFT income, giden ödeme expense.\n" +
		"- apartmentNo alanını SADECE açıklamadaki isim listedeki bir sakinle " +
		"veya ev sahibiyle eşleşiyorsa doldur.\n" +
		"- Çıktı \"[\" ile başlayıp \"]\" ile bitmeli.\n\n" +
		"Ekstre metni:\n" + chunk
}

// ChunkText splits statement text into pieces no longer than the
// request budget, breaking on line boundaries. A single line longer
// than the budget becomes its own oversized chunk.
func ChunkText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if cur.Len() > 0 && cur.Len()+len(line)+1 > chunkSize {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// shapedJSON mirrors the contract the prompt dictates.
type shapedJSON struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Type        string          `json:"type"`
	ApartmentNo json.RawMessage `json:"apartmentNo"`
}

func (s *shapedJSON) toRow() importer.RawRow {
	return importer.RawRow{Shaped: &importer.ShapedRow{
		Date:        s.Date,
		Description: s.Description,
		Amount:      rawToString(s.Amount),
		Type:        s.Type,
		ApartmentNo: rawToString(s.ApartmentNo),
	}}
}

// rawToString tolerates both `"5"` and `5` for fields the model is
// told to return as strings.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(raw))
}

// CleanResponse strips Markdown fences and any prose around the JSON
// array, keeping the text from the first '[' to the last ']'.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}

var objectPattern = regexp.MustCompile(`\{[^{}]*\}`)

// ParseResponse parses one model reply into raw rows. A well-formed
// array parses directly; otherwise every balanced object in the text
// is tried individually and the parseable ones survive.
func ParseResponse(raw string) ([]importer.RawRow, error) {
	clean := CleanResponse(raw)

	var shaped []shapedJSON
	if err := json.Unmarshal([]byte(clean), &shaped); err == nil {
		rows := make([]importer.RawRow, 0, len(shaped))
		for i := range shaped {
			rows = append(rows, shaped[i].toRow())
		}
		return rows, nil
	}

	// salvage pass over a malformed reply
	var rows []importer.RawRow
	for _, obj := range objectPattern.FindAllString(clean, -1) {
		var s shapedJSON
		if err := json.Unmarshal([]byte(obj), &s); err != nil {
			continue
		}
		if s.Description == "" && len(s.Amount) == 0 {
			continue
		}
		rows = append(rows, s.toRow())
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no parseable transactions in model response")
	}
	slog.Warn("Salvaged partial extraction from malformed model output",
		"recovered", len(rows))
	return rows, nil
}

func (e *Extractor) extractChunk(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	var text string
	err := common.WithRetry(ctx, func() error {
		resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, nil)
		if err != nil {
			return err
		}
		text = resp.Text()
		if text == "" {
			return fmt.Errorf("empty model response")
		}
		return nil
	}, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
	})
	return text, err
}

// Extract runs the full statement text through the model, chunk by
// chunk. A failed chunk is logged and skipped; when some chunks fail
// the rows from the surviving chunks are returned together with a
// non-nil error so callers can keep the partial result while telling
// the operator the statement was not fully covered.
func (e *Extractor) Extract(ctx context.Context, text string, residents []model.Resident) ([]importer.RawRow, error) {
	chunks := ChunkText(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("statement text is empty")
	}
	return extractChunks(ctx, chunks, DirectoryContext(residents), e.extractChunk)
}

func extractChunks(ctx context.Context, chunks []string, directory string, call func(context.Context, string) (string, error)) ([]importer.RawRow, error) {
	var rows []importer.RawRow
	var failed int
	for i, chunk := range chunks {
		reply, err := call(ctx, buildPrompt(directory, chunk))
		if err != nil {
			slog.Warn("Chunk extraction failed", "chunk", i+1, "chunks", len(chunks), "error", err)
			failed++
			continue
		}
		parsed, err := ParseResponse(reply)
		if err != nil {
			slog.Warn("Chunk response unparseable", "chunk", i+1, "chunks", len(chunks), "error", err)
			failed++
			continue
		}
		rows = append(rows, parsed...)
	}

	if failed == len(chunks) {
		return nil, fmt.Errorf("extraction failed for all %d chunks", len(chunks))
	}
	if failed > 0 {
		return rows, fmt.Errorf("%d of %d chunks failed", failed, len(chunks))
	}
	return rows, nil
}

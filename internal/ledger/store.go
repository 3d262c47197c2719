package ledger

import (
	"time"

	"github.com/syaprakli/bina-yonetim/internal/model"
)

// Data is the in-memory ledger state: the resident directory, the
// transaction ledger, and the saved announcement templates.
type Data struct {
	Residents     []model.Resident
	Transactions  []model.Transaction
	Announcements []model.Announcement
}

// maxID returns the highest creation token present in the data.
func (d *Data) maxID() int64 {
	var max int64
	for i := range d.Transactions {
		if d.Transactions[i].ID > max {
			max = d.Transactions[i].ID
		}
	}
	for i := range d.Announcements {
		if d.Announcements[i].ID > max {
			max = d.Announcements[i].ID
		}
	}
	return max
}

// idMint produces creation-ordered tokens. Tokens are unix-millisecond
// based so that ID distance doubles as elapsed time for the duplicate
// submission window, and strictly monotonic even when minted within
// the same millisecond.
type idMint struct {
	last int64
}

func (m *idMint) next() int64 {
	id := time.Now().UnixMilli()
	if id <= m.last {
		id = m.last + 1
	}
	m.last = id
	return id
}

// FindResident returns the resident with the given ID, or nil.
func (d *Data) FindResident(id string) *model.Resident {
	for i := range d.Residents {
		if d.Residents[i].ID == id {
			return &d.Residents[i]
		}
	}
	return nil
}

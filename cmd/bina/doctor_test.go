package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syaprakli/bina-yonetim/internal/integrity"
)

func TestDescribeReport(t *testing.T) {
	assert.Equal(t, "Data is consistent.", describeReport(integrity.Report{}))

	got := describeReport(integrity.Report{Renamed: 2, Merged: 1, DroppedTxns: 3})
	assert.Equal(t, "Repairs applied: 2 renamed, 1 merged, 0 reassigned, 3 duplicate transactions removed", got)

	// a repair of any single kind means the data was not consistent
	assert.NotEqual(t, "Data is consistent.", describeReport(integrity.Report{Reassigned: 1}))
}

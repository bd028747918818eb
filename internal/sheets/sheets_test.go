package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpreadsheetIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://docs.google.com/spreadsheets/d/1AbC_dEf-123/edit#gid=0",
			"1AbC_dEf-123",
		},
		{
			"https://docs.google.com/spreadsheets/d/xyz789",
			"xyz789",
		},
		{"1AbC_dEf-123", "1AbC_dEf-123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SpreadsheetID(tt.in))
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	_, err := New(context.Background(), "", "sheet-id")
	assert.Error(t, err)

	_, err = New(context.Background(), "/tmp/creds.json", "")
	assert.Error(t, err)
}

func TestNewMissingCredsFile(t *testing.T) {
	_, err := New(context.Background(), "/no/such/creds.json", "sheet-id")
	assert.Error(t, err)
}

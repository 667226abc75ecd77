package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaj-family/familyhub/internal/models"
)

func TestYearOf(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2023-06-18", "2023"},
		{"June 18, 2023", "2023"},
		{"Jun 18, 2023", "2023"},
		{"2023/06/18", "2023"},
		{"2023-06-18T10:00:00Z", "2023"},
		{"0999-05-01", "0999"},
		{"0042-01-01", "0042"},
	}
	for _, tc := range tests {
		t.Run(tc.date, func(t *testing.T) {
			got, err := models.YearOf(tc.date)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Len(t, got, 4)
		})
	}
}

func TestYearOf_Invalid(t *testing.T) {
	_, err := models.YearOf("")
	assert.ErrorIs(t, err, models.ErrEmptyDate)

	_, err = models.YearOf("someday")
	assert.Error(t, err)
}

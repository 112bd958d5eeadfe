package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamboard/api/internal/api"
)

func TestNormalizePhone(t *testing.T) {
	t.Run("Formats a national number as E.164", func(t *testing.T) {
		assert.Equal(t, "+12125550123", api.NormalizePhone("(212) 555-0123"))
	})

	t.Run("Keeps E.164 input intact", func(t *testing.T) {
		assert.Equal(t, "+12125550123", api.NormalizePhone("+1 212 555 0123"))
	})

	t.Run("Passes through what it cannot parse", func(t *testing.T) {
		assert.Equal(t, "front desk", api.NormalizePhone("front desk"))
		assert.Equal(t, "", api.NormalizePhone(""))
	})
}

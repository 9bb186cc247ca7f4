package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "difference entre", Fold("  Différence   ENTRE "))
	assert.Equal(t, "correlacion", Fold("Correlación"))
	assert.Equal(t, "", Fold("   "))
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"customerID", []string{"customer", "id"}},
		{"order_id", []string{"order", "id"}},
		{"Zip Code", []string{"zip", "code"}},
		{"HTTPStatus", []string{"http", "status"}},
		{"score2023", []string{"score2023"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.name))
		})
	}
}

func TestSingularTokens(t *testing.T) {
	assert.Equal(t, []string{"customer", "id"}, SingularTokens("customer_ids"))
	assert.Equal(t, []string{"key"}, SingularTokens("Keys"))
}

func TestContainsAny(t *testing.T) {
	k, ok := ContainsAny(Fold("We want to PREDICT sales"), []string{"forecast", "predict"})
	assert.True(t, ok)
	assert.Equal(t, "predict", k)

	_, ok = ContainsAny("nothing here", []string{"predict"})
	assert.False(t, ok)
}

package classifier_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridline-labs/gridline/pkg/adapters/classifier"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyword_Classify(t *testing.T) {
	k := classifier.NewKeyword(nil)
	ctx := context.Background()

	tests := []struct {
		text string
		want []string
	}{
		{"I want to check my bill", []string{"Bill Inquiries"}},
		{"There is NO POWER in my area", []string{"Fault Reporting"}},
		{"hello, my solar panel payment", []string{"Bill Inquiries", "Solar Services", "greetings"}},
		{"hi", []string{"greetings"}},
		{"this is something else", nil},
		{"ship", nil},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := k.Classify(ctx, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTP_Classify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Text == "fail" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"labels": {"Bill Inquiries"}})
	}))
	defer srv.Close()

	c := classifier.NewHTTP(srv.URL, nil)
	labels, err := c.Classify(context.Background(), "my bill")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bill Inquiries"}, labels)

	_, err = c.Classify(context.Background(), "fail")
	var svcErr *domain.ExternalServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "classifier", svcErr.Service)
}

package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextHelpers(t *testing.T) {
	t.Run("Success_InjectAndRetrieve", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "http://example.com/webhook/buckaroo", nil)
		w := httptest.NewRecorder()

		ctx := WithHTTP(context.Background(), req, w)

		gotReq, ok := Request(ctx)
		assert.True(t, ok)
		assert.Equal(t, req, gotReq)

		gotW, ok := ResponseWriter(ctx)
		assert.True(t, ok)
		assert.Equal(t, w, gotW)
	})

	t.Run("Empty_Context", func(t *testing.T) {
		ctx := context.Background()

		r, ok := Request(ctx)
		assert.False(t, ok)
		assert.Nil(t, r)

		_, ok = ResponseWriter(ctx)
		assert.False(t, ok)
	})

	t.Run("Nil_Request_Bound", func(t *testing.T) {
		ctx := WithHTTP(context.Background(), nil, nil)

		_, ok := Request(ctx)
		assert.False(t, ok)
	})
}

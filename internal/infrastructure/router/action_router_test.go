package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/utils"
)

type prefixHandler struct {
	name string
}

func (h prefixHandler) CanHandle(action string) bool {
	return len(action) >= len(h.name) && action[:len(h.name)] == h.name
}

func (h prefixHandler) Handle(context.Context, string, string, utils.Locale) (entity.Reply, error) {
	return entity.Reply{Text: h.name}, nil
}

func TestActionRouterFirstMatchWins(t *testing.T) {
	r := NewActionRouter(logger.NewNopLogger())
	r.Register(prefixHandler{name: "refresh"})
	r.Register(prefixHandler{name: "ref"})
	r.Register(prefixHandler{name: "date"})

	h := r.GetHandler("refresh|SU100|2025-07-15")
	if assert.NotNil(t, h) {
		reply, err := h.Handle(context.Background(), "c1", "refresh|SU100|2025-07-15", utils.LocaleEN)
		assert.NoError(t, err)
		assert.Equal(t, "refresh", reply.Text)
	}

	assert.NotNil(t, r.GetHandler("date|today"))
	assert.Nil(t, r.GetHandler("unknown"))
}

package handler

import (
	"encoding/json"
	"net/http"

	gographql "github.com/graphql-go/graphql"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdesk/backend/api/graphql"
	"github.com/taskdesk/backend/api/transport"
	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/pkg/httpcontext"
)

type GraphQLHandler struct {
	baseHandler
	schema gographql.Schema
}

func NewGraphQLHandler(schema gographql.Schema, adapter *httpcontext.Adapter, logger *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		baseHandler: newBaseHandler(adapter, logger),
		schema:      schema,
	}
}

// @Summary Execute a read-only query
// @Tags graphql
// @Router /graphql [post]
func (h *GraphQLHandler) Query(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	var req transport.GraphQLRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Query == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid graphql request", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result := gographql.Do(gographql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        graphql.WithActor(stdCtx, actor),
	})

	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusOK)
	body, err := json.Marshal(result)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.SetBody(body)
}

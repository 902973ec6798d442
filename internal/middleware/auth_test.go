package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/taskdesk/backend/domain"
	"github.com/taskdesk/backend/pkg/httpcontext"
)

type staticVerifier struct {
	actor domain.Actor
	err   error
}

func (v staticVerifier) Verify(_ context.Context, _ string) (domain.Actor, error) {
	return v.actor, v.err
}

func TestAuthAttachesActor(t *testing.T) {
	verifier := staticVerifier{actor: domain.Actor{ID: "u1", Username: "alice"}}

	var captured domain.Actor
	handler := Auth(verifier, nil)(func(ctx *fasthttp.RequestCtx) {
		captured, _ = ctx.UserValue(httpcontext.ActorKey).(domain.Actor)
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer some-token")
	handler(&ctx)

	assert.Equal(t, "u1", captured.ID)
	assert.NotEqual(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	handler := Auth(staticVerifier{actor: domain.Actor{ID: "u1"}}, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("next handler must not run")
	})

	cases := map[string]string{
		"missing":      "",
		"no scheme":    "some-token",
		"wrong scheme": "Basic abc123",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			var ctx fasthttp.RequestCtx
			if header != "" {
				ctx.Request.Header.Set("Authorization", header)
			}
			handler(&ctx)
			assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
		})
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(staticVerifier{err: domain.ErrUnauthorized}, nil)(func(ctx *fasthttp.RequestCtx) {
		t.Fatal("next handler must not run")
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer expired-token")
	handler(&ctx)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

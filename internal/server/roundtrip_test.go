package server

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/privcheck/internal/api"
	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/session"
)

// runSession answers every question with pick and returns the outcome.
func runSession(t *testing.T, s *session.Session, pick func(content.Question) string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	for s.State() == session.StateInProgress {
		q, ok := s.CurrentQuestion()
		require.True(t, ok)
		require.NoError(t, s.Answer(pick(q)))
		require.NoError(t, s.Next(ctx))
	}
}

func TestRemoteSessionMatchesLocalScoring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, err := NewService(NewMemoryRepo(), 8, nil, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(NewRouter(RouterDeps{Service: svc}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, api.WithToken("tok"))
	require.NoError(t, err)

	// Alternate between the first and last option to get a mixed result.
	pick := func() func(content.Question) string {
		i := 0
		return func(q content.Question) string {
			i++
			if i%2 == 0 {
				return q.Options[0].Value
			}
			return q.Options[len(q.Options)-1].Value
		}
	}

	for _, kind := range content.AllKinds() {
		t.Run(string(kind), func(t *testing.T) {
			strategy := session.SelectStrategy(&session.Identity{Token: "tok"}, client)
			require.Equal(t, session.ModeRemote, strategy.Mode())

			remote := session.New(kind, strategy, session.Options{})
			runSession(t, remote, pick())

			local := session.New(kind, session.SelectStrategy(nil, client), session.Options{})
			runSession(t, local, pick())

			require.NotNil(t, remote.Outcome())
			require.NotNil(t, local.Outcome())
			assert.Equal(t, *local.Outcome(), *remote.Outcome())

			st, err := client.GetStatus(context.Background(), remote.AssessmentID())
			require.NoError(t, err)
			assert.Equal(t, api.StatusCompleted, st.Status)
			assert.Equal(t, remote.StepCount(), st.Answered)
		})
	}
}

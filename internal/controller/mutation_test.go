package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/config"
	"github.com/trippal/admin-console/internal/domain"
	"github.com/trippal/admin-console/internal/events"
	"github.com/trippal/admin-console/internal/session"
	"github.com/trippal/admin-console/internal/storage"
	"github.com/trippal/admin-console/pkg/util"
)

type mutatorFixture struct {
	mutator  *Mutator
	tickets  *ListController[domain.SupportTicket]
	session  *session.Store
	tokens   *storage.TokenStore
	requests *atomic.Int64
}

func newMutatorFixture(t *testing.T, handler http.Handler) *mutatorFixture {
	t.Helper()

	requests := &atomic.Int64{}
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler.ServeHTTP(w, r)
	})
	server := httptest.NewServer(counting)
	t.Cleanup(server.Close)

	tokens := storage.NewTokenStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, tokens.SetAll(map[string]string{
		storage.KeyAccess:  "test-access",
		storage.KeyRefresh: "test-refresh",
	}))

	dispatcher := events.NewInMemoryDispatcher()
	client := api.NewClient(config.APIConfig{BaseURL: server.URL, TimeoutSeconds: 5}, tokens, zap.NewNop())
	sessionStore := session.NewStore(session.Dependencies{
		API:        client,
		Tokens:     tokens,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	tickets := NewTicketList(client, 10, 20*time.Millisecond, dispatcher, zap.NewNop())

	return &mutatorFixture{
		mutator: NewMutator(MutationDependencies{
			API:     client,
			Session: sessionStore,
			Tickets: tickets,
			Logger:  zap.NewNop(),
		}),
		tickets:  tickets,
		session:  sessionStore,
		tokens:   tokens,
		requests: requests,
	}
}

const ticketListBody = `{"results":[
	{"id":5,"category":"faq","question_text":"How do refunds work?","is_answered":false,"answer_content":"","created_at":"2026-08-01T10:00:00Z"},
	{"id":6,"category":"car","question_text":"Where is pickup?","is_answered":false,"answer_content":"","created_at":"2026-08-02T10:00:00Z"}
],"count":2}`

func TestAnswerTicket_ReplacesWithServerRepresentation(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/supportticket/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(ticketListBody))
		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/5/"):
			// Authoritative response carries fields the client never
			// sent in its patch.
			w.Write([]byte(`{"id":5,"category":"faq","question_text":"How do refunds work?","is_answered":true,"answer_content":"Within 14 days.","answered_by":{"id":3,"username":"amy"},"answered_at":"2026-08-03T09:00:00Z","created_at":"2026-08-01T10:00:00Z"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	f := newMutatorFixture(t, mux)
	require.NoError(t, f.tickets.Load(context.Background(), 1, nil))

	updated, err := f.mutator.AnswerTicket(context.Background(), 5, "Within 14 days.")
	require.NoError(t, err)
	assert.True(t, updated.IsAnswered)

	items := f.tickets.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(5), items[0].ID)
	assert.True(t, items[0].IsAnswered, "list entry must equal the full server response, not a local merge")
	assert.Equal(t, "Within 14 days.", items[0].AnswerContent)
	require.NotNil(t, items[0].AnsweredBy)
	assert.Equal(t, "amy", items[0].AnsweredBy.Username)
	assert.False(t, items[1].IsAnswered, "other entries untouched")
}

func TestAnswerTicket_FailureLeavesListUntouched(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/supportticket/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(ticketListBody))
			return
		}
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"staff only"}`))
	})
	f := newMutatorFixture(t, mux)
	require.NoError(t, f.tickets.Load(context.Background(), 1, nil))
	before := f.tickets.Items()

	_, err := f.mutator.AnswerTicket(context.Background(), 5, "draft answer")
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindServer))
	assert.Equal(t, before, f.tickets.Items())
}

func TestAnswerTicket_EmptyContentRejectedLocally(t *testing.T) {
	t.Parallel()

	f := newMutatorFixture(t, http.NotFoundHandler())
	_, err := f.mutator.AnswerTicket(context.Background(), 5, "   ")
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Equal(t, int64(0), f.requests.Load())
}

func TestCreateTicket_TriggersPageOneRefetch(t *testing.T) {
	t.Parallel()

	listCalls := atomic.Int64{}
	mux := http.NewServeMux()
	mux.HandleFunc("/supportticket/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listCalls.Add(1)
			assert.Equal(t, "car", r.URL.Query().Get("category"))
			w.Write([]byte(ticketListBody))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":7,"category":"car","question_text":"New question","is_answered":false,"created_at":"2026-08-04T10:00:00Z"}`))
		}
	})
	f := newMutatorFixture(t, mux)
	require.NoError(t, f.tickets.Load(context.Background(), 1, map[string]string{FilterCategory: "car"}))
	require.Equal(t, int64(1), listCalls.Load())

	require.NoError(t, f.mutator.CreateTicket(context.Background(), domain.TicketCategoryCar, "New question"))

	assert.Equal(t, int64(2), listCalls.Load(), "create must re-fetch page 1 under the current filters")
	assert.Equal(t, 1, f.tickets.Page())
}

func TestCreateTicket_ValidationAndFailure(t *testing.T) {
	t.Parallel()

	t.Run("empty question", func(t *testing.T) {
		t.Parallel()

		f := newMutatorFixture(t, http.NotFoundHandler())
		err := f.mutator.CreateTicket(context.Background(), domain.TicketCategoryFAQ, "  ")
		require.Error(t, err)
		assert.True(t, util.IsKind(err, util.KindValidation))
		assert.Equal(t, int64(0), f.requests.Load())
	})

	t.Run("server rejection", func(t *testing.T) {
		t.Parallel()

		listCalls := atomic.Int64{}
		mux := http.NewServeMux()
		mux.HandleFunc("/supportticket/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				listCalls.Add(1)
				w.Write([]byte(ticketListBody))
				return
			}
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"category unknown"}`))
		})
		f := newMutatorFixture(t, mux)
		require.NoError(t, f.tickets.Load(context.Background(), 1, nil))

		err := f.mutator.CreateTicket(context.Background(), domain.TicketCategory("bogus"), "question")
		require.Error(t, err)
		assert.Equal(t, int64(1), listCalls.Load(), "no refetch after a failed create")
	})
}

func TestUploadAvatar_LocalValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		upload dto.AvatarUpload
	}{
		{
			name:   "disallowed type",
			upload: dto.AvatarUpload{FileName: "pic.bmp", ContentType: "image/bmp", Data: []byte("x")},
		},
		{
			name:   "oversized file",
			upload: dto.AvatarUpload{FileName: "big.png", ContentType: "image/png", Data: make([]byte, 3*1024*1024)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newMutatorFixture(t, http.NotFoundHandler())
			_, err := f.mutator.UploadAvatar(context.Background(), tt.upload)
			require.Error(t, err)
			assert.True(t, util.IsKind(err, util.KindValidation))
			assert.Equal(t, int64(0), f.requests.Load(), "invalid files must never reach the network")
		})
	}
}

func TestUploadAvatar_ReplacesSessionAvatar(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/me/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"id":3,"username":"amy","profile":{"avatar":"avatars/old.png"}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/me/avatar/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":3,"username":"amy","profile":{"avatar":"avatars/new.png"}}`))
	})
	f := newMutatorFixture(t, mux)
	require.NoError(t, f.session.Restore(context.Background()))

	user, err := f.mutator.UploadAvatar(context.Background(), dto.AvatarUpload{
		FileName:    "me.png",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "avatars/new.png", user.Profile.Avatar)

	current := f.session.Current()
	require.NotNil(t, current.User)
	assert.Equal(t, "avatars/new.png", current.User.Profile.Avatar)
}

func TestUpdateProfile_CommitsServerUser(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/me/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"id":3,"username":"amy","first_name":""}`))
			return
		}
		w.Write([]byte(`{"id":3,"username":"amy","first_name":"Amy","last_name":"Tan"}`))
	})
	f := newMutatorFixture(t, mux)
	require.NoError(t, f.session.Restore(context.Background()))

	first := "Amy"
	user, err := f.mutator.UpdateProfile(context.Background(), dto.ProfilePatch{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Amy", user.FirstName)
	assert.Equal(t, "Amy Tan", f.session.Current().User.DisplayName())
}

func TestUpdateProfile_UnauthorizedClearsAccessToken(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/me/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"id":3,"username":"amy"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"token expired"}`))
	})
	f := newMutatorFixture(t, mux)
	require.NoError(t, f.session.Restore(context.Background()))

	email := "amy@example.com"
	_, err := f.mutator.UpdateProfile(context.Background(), dto.ProfilePatch{Email: &email})
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindAuth))
	assert.Equal(t, "", f.tokens.Get(storage.KeyAccess), "401 on profile edit clears the stored access token")
	assert.Equal(t, "test-refresh", f.tokens.Get(storage.KeyRefresh))
}

func TestUpdateProfile_RejectsBadEmail(t *testing.T) {
	t.Parallel()

	f := newMutatorFixture(t, http.NotFoundHandler())
	email := "not-an-email"
	_, err := f.mutator.UpdateProfile(context.Background(), dto.ProfilePatch{Email: &email})
	require.Error(t, err)
	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Equal(t, int64(0), f.requests.Load())
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"github.com/civictechlab/contrib-api/internal/domain"
	api "github.com/civictechlab/contrib-api/internal/http"
	"github.com/civictechlab/contrib-api/internal/identity"
	"github.com/civictechlab/contrib-api/internal/log"
	"github.com/civictechlab/contrib-api/internal/payment"
	"github.com/civictechlab/contrib-api/internal/queue"
	"github.com/civictechlab/contrib-api/internal/repo"
)

type testEnv struct {
	T        *testing.T
	Mini     *miniredis.Miniredis
	Redis    *repo.Redis
	Store    *repo.Store
	Identity *fakeIdentity
	Gateway  *fakeGateway
	Handler  *api.Handler
	Router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	_, _ = log.Init(false)

	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	rdb := &repo.Redis{C: redis.NewClient(&redis.Options{Addr: m.Addr()})}

	store, err := repo.NewStore(testDSN(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	idp := &fakeIdentity{profiles: map[string]*identity.Profile{}}
	gw := newFakeGateway()

	h := api.NewHandler(rdb, store, idp, gw, queue.NewNoop(), discardMail{})

	gin.SetMode(gin.TestMode)
	r := api.NewRouter(h)

	return &testEnv{T: t, Mini: m, Redis: rdb, Store: store, Identity: idp, Gateway: gw, Handler: h, Router: r}
}

// testDSN gives each test its own shared in-memory sqlite database.
func testDSN(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return "file:" + name + "?mode=memory&cache=shared"
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.Router.ServeHTTP(w, req)
	return w
}

// authenticate registers a profile under fbToken and returns the bearer token.
func (e *testEnv) authenticate(fbToken string, prof identity.Profile) string {
	e.T.Helper()
	e.Identity.profiles[fbToken] = &prof
	w := e.do("POST", "/v1/authenticate", `{"facebookToken":"`+fbToken+`"}`, "")
	require.Equal(e.T, 200, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(e.T, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(e.T, resp.AccessToken)
	return resp.AccessToken
}

func (e *testEnv) seedEvent(iden string, support, oppose []string) {
	e.T.Helper()
	require.NoError(e.T, e.Store.CreateEvent(context.Background(), &domain.Event{
		Iden:        iden,
		Name:        "Event " + iden,
		SupportPacs: support,
		OpposePacs:  oppose,
	}))
}

func (e *testEnv) seedPolitician(iden, name string) {
	e.T.Helper()
	require.NoError(e.T, e.Store.CreatePolitician(context.Background(), &domain.Politician{
		Iden: iden,
		Name: name,
	}))
}

type fakeIdentity struct {
	profiles map[string]*identity.Profile
}

func (f *fakeIdentity) Verify(_ context.Context, token string) (*identity.Profile, error) {
	p, ok := f.profiles[token]
	if !ok {
		return nil, fmt.Errorf("%w: unknown token", domain.ErrExternalAuth)
	}
	return p, nil
}

type chargeCall struct {
	Customer    string
	AmountCents int64
	Meta        payment.ChargeMeta
}

type fakeGateway struct {
	mu           sync.Mutex
	seq          int
	cards        map[string]string // customer iden -> current card token
	charges      []chargeCall
	failCharge   bool
	failCustomer bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{cards: map[string]string{}}
}

func (g *fakeGateway) CreateCustomer(_ context.Context, userIden, cardToken string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCustomer {
		return "", fmt.Errorf("%w: create customer", domain.ErrPaymentGateway)
	}
	g.seq++
	iden := fmt.Sprintf("cus_%d", g.seq)
	g.cards[iden] = cardToken
	return iden, nil
}

func (g *fakeGateway) UpdateCard(_ context.Context, customerIden, cardToken string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.cards[customerIden]; !ok {
		return fmt.Errorf("%w: no such customer", domain.ErrPaymentGateway)
	}
	g.cards[customerIden] = cardToken
	return nil
}

func (g *fakeGateway) Charge(_ context.Context, customerIden string, amountCents int64, meta payment.ChargeMeta) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCharge {
		return "", fmt.Errorf("%w: card declined", domain.ErrPaymentGateway)
	}
	g.seq++
	g.charges = append(g.charges, chargeCall{Customer: customerIden, AmountCents: amountCents, Meta: meta})
	return fmt.Sprintf("ch_%d", g.seq), nil
}

func (g *fakeGateway) customerCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cards)
}

func (g *fakeGateway) chargeCalls() []chargeCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]chargeCall, len(g.charges))
	copy(out, g.charges)
	return out
}

type discardMail struct{}

func (discardMail) Send(string, string, string) error { return nil }

// failCmdHook makes the redis client fail a single command, optionally only
// for keys containing substr. Lets tests break one write while the rest of
// the request's store traffic still works.
type failCmdHook struct {
	cmd    string // lowercase command name, e.g. "set", "lrange"
	substr string // key substring filter; "" fails every matching command
}

func (h failCmdHook) BeforeProcess(ctx context.Context, cmd redis.Cmder) (context.Context, error) {
	if cmd.Name() != h.cmd {
		return ctx, nil
	}
	if h.substr != "" {
		if len(cmd.Args()) < 2 {
			return ctx, nil
		}
		key, ok := cmd.Args()[1].(string)
		if !ok || !strings.Contains(key, h.substr) {
			return ctx, nil
		}
	}
	return ctx, fmt.Errorf("injected %s failure", h.cmd)
}

func (failCmdHook) AfterProcess(context.Context, redis.Cmder) error { return nil }

func (failCmdHook) BeforeProcessPipeline(ctx context.Context, _ []redis.Cmder) (context.Context, error) {
	return ctx, nil
}

func (failCmdHook) AfterProcessPipeline(context.Context, []redis.Cmder) error { return nil }

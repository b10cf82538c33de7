package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/civictechlab/contrib-api/internal/domain"
	"github.com/civictechlab/contrib-api/internal/identity"
	"github.com/civictechlab/contrib-api/internal/log"
	"github.com/civictechlab/contrib-api/internal/mail"
	"github.com/civictechlab/contrib-api/internal/metrics"
	"github.com/civictechlab/contrib-api/internal/payment"
	"github.com/civictechlab/contrib-api/internal/queue"
	"github.com/civictechlab/contrib-api/internal/repo"
	"github.com/civictechlab/contrib-api/internal/security"
)

type Handler struct {
	Redis    *repo.Redis
	Store    *repo.Store
	Identity identity.Provider
	Gateway  payment.Gateway
	Events   queue.Publisher
	Mail     mail.Sender

	// Identifier sources, swappable in tests.
	NewIden  func() string
	NewToken func() (string, error)
}

func NewHandler(rdb *repo.Redis, store *repo.Store, idp identity.Provider, gw payment.Gateway, pub queue.Publisher, sender mail.Sender) *Handler {
	return &Handler{
		Redis:    rdb,
		Store:    store,
		Identity: idp,
		Gateway:  gw,
		Events:   pub,
		Mail:     sender,
		NewIden:  security.NewIden,
		NewToken: security.NewToken,
	}
}

// storageFail logs err wrapped in the storage sentinel and answers with the
// generic server failure. Callers never learn the cause beyond the status.
func storageFail(c *gin.Context, op string, err error) {
	log.L().Error("storage", zap.Error(fmt.Errorf("%s: %w: %v", op, domain.ErrStorage, err)))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage"})
}

type authenticateReq struct {
	FacebookToken string `json:"facebookToken"`
}

// Authenticate godoc
// @Summary Exchange a Facebook login token for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body authenticateReq true "facebookToken"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /v1/authenticate [post]
func (h *Handler) Authenticate(c *gin.Context) {
	var in authenticateReq
	if err := c.ShouldBindJSON(&in); err != nil || in.FacebookToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing facebookToken"})
		return
	}
	ctx := c.Request.Context()

	prof, err := h.Identity.Verify(ctx, in.FacebookToken)
	if err != nil {
		if errors.Is(err, domain.ErrExternalAuth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid facebook token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "identity provider"})
		return
	}

	userIden, err := h.Redis.UserIdenByFacebook(ctx, prof.Iden)
	if err != nil {
		storageFail(c, "facebook map lookup", err)
		return
	}
	if userIden != "" {
		tok, err := h.Redis.TokenByUser(ctx, userIden)
		if err != nil {
			storageFail(c, "token lookup", err)
			return
		}
		if tok == "" {
			log.L().Error("user exists without token mapping",
				zap.String("user", userIden), zap.Error(domain.ErrInternalInconsistency))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "inconsistent account"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"accessToken": tok})
		return
	}

	// New identity: register. The four writes below run in this exact order;
	// the facebook map lands last so a crash mid-sequence leaves the external
	// identity unregistered and a later login retries registration instead of
	// picking up a half-created record. The sequence is not atomic.
	now := time.Now().Unix()
	u := &domain.User{
		Iden:         h.NewIden(),
		FacebookIden: prof.Iden,
		Name:         prof.Name,
		Email:        prof.Email,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	tok, err := h.NewToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation"})
		return
	}
	steps := []func() error{
		func() error { return h.Redis.SaveUser(ctx, u) },
		func() error { return h.Redis.SaveTokenUser(ctx, tok, u.Iden) },
		func() error { return h.Redis.SaveUserToken(ctx, u.Iden, tok) },
		func() error { return h.Redis.SaveFacebookUser(ctx, prof.Iden, u.Iden) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			storageFail(c, "registration write for user "+u.Iden, err)
			return
		}
	}

	rid := requestID(c)
	go h.Events.Publish(context.Background(), queue.KeyUserRegistered,
		queue.UserRegistered{UserIden: u.Iden, Email: u.Email, Name: u.Name}, rid)
	if u.Email != "" {
		go func() {
			if err := h.Mail.Send(u.Email, "Welcome", "Your account is ready."); err != nil {
				log.L().Warn("welcome mail", zap.String("user", u.Iden), zap.Error(err))
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": tok})
}

// GetUserData godoc
// @Summary Profile, chargeability and contribution history
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /v1/get-user-data [post]
func (h *Handler) GetUserData(c *gin.Context) {
	u := currentUser(c)

	var (
		chargeable    bool
		contributions []domain.Contribution
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		cust, err := h.Redis.CustomerIden(ctx, u.Iden)
		chargeable = cust != ""
		return err
	})
	g.Go(func() error {
		var err error
		contributions, err = h.listContributions(ctx, u.Iden)
		return err
	})
	if err := g.Wait(); err != nil {
		storageFail(c, "get-user-data for user "+u.Iden, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":       u,
		"chargeable":    chargeable,
		"contributions": contributions,
	})
}

// listContributions resolves the user's reverse-chronological iden list
// against the ledger. Idens with no ledger row (a bookkeeping write that never
// landed) are logged and skipped.
func (h *Handler) listContributions(ctx context.Context, userIden string) ([]domain.Contribution, error) {
	idens, err := h.Redis.ContributionIdens(ctx, userIden)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contribution, 0, len(idens))
	for _, iden := range idens {
		contrib, err := h.Store.FindContribution(ctx, iden)
		if err != nil {
			return nil, err
		}
		if contrib == nil {
			log.L().Warn("contribution iden without ledger row",
				zap.String("user", userIden), zap.String("contribution", iden))
			continue
		}
		out = append(out, *contrib)
	}
	return out, nil
}

type updateProfileReq struct {
	Name          string `json:"name"`
	Occupation    string `json:"occupation"`
	Employer      string `json:"employer"`
	StreetAddress string `json:"streetAddress"`
	CityStateZip  string `json:"cityStateZip"`
}

// UpdateProfile overwrites each non-empty patch field and refreshes the
// modified timestamp. Field contents are not validated (deliberately
// permissive, matching the original contract).
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in updateProfileReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u := currentUser(c)
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Occupation != "" {
		u.Occupation = in.Occupation
	}
	if in.Employer != "" {
		u.Employer = in.Employer
	}
	if in.StreetAddress != "" {
		u.StreetAddress = in.StreetAddress
	}
	if in.CityStateZip != "" {
		u.CityStateZip = in.CityStateZip
	}
	u.ModifiedAt = time.Now().Unix()

	if err := h.Redis.SaveUser(c.Request.Context(), u); err != nil {
		storageFail(c, "profile save for user "+u.Iden, err)
		return
	}
	c.Status(http.StatusOK)
}

type setCardReq struct {
	CardToken string `json:"cardToken"`
}

// SetCard godoc
// @Summary Register or replace the user's payment method
// @Tags payment
// @Security BearerAuth
// @Accept json
// @Success 200
// @Failure 400 {object} map[string]string
// @Router /v1/set-card [post]
func (h *Handler) SetCard(c *gin.Context) {
	var in setCardReq
	if err := c.ShouldBindJSON(&in); err != nil || in.CardToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cardToken"})
		return
	}
	u := currentUser(c)
	ctx := c.Request.Context()

	customerIden, err := h.Redis.CustomerIden(ctx, u.Iden)
	if err != nil {
		storageFail(c, "customer lookup for user "+u.Iden, err)
		return
	}

	if customerIden != "" {
		if err := h.Gateway.UpdateCard(ctx, customerIden, in.CardToken); err != nil {
			log.L().Warn("card update rejected", zap.String("user", u.Iden), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "card rejected"})
			return
		}
		c.Status(http.StatusOK)
		return
	}

	customerIden, err = h.Gateway.CreateCustomer(ctx, u.Iden, in.CardToken)
	if err != nil {
		log.L().Warn("customer create rejected", zap.String("user", u.Iden), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "card rejected"})
		return
	}
	if err := h.Redis.SaveCustomerIden(ctx, u.Iden, customerIden); err != nil {
		// The gateway customer now exists with no internal reference. Logged
		// for reconciliation, not repaired here.
		log.L().Error("customer mapping write failed, gateway customer dangling",
			zap.String("user", u.Iden), zap.String("customer", customerIden),
			zap.Error(fmt.Errorf("%w: %v", domain.ErrStorage, err)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage"})
		return
	}
	c.Status(http.StatusOK)
}

type createContributionReq struct {
	EventIden string `json:"eventIden"`
	PacIden   string `json:"pacIden"`
	Amount    int64  `json:"amount"`
}

// CreateContribution godoc
// @Summary Validate, charge and record a contribution
// @Tags contributions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} domain.Contribution
// @Failure 400 {object} map[string]string
// @Router /v1/create-contribution [post]
func (h *Handler) CreateContribution(c *gin.Context) {
	var in createContributionReq
	if err := c.ShouldBindJSON(&in); err != nil || in.EventIden == "" || in.PacIden == "" || in.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventIden, pacIden and amount are required"})
		return
	}
	u := currentUser(c)

	// Three independent reads, first failure wins.
	var (
		customerIden string
		ev           *domain.Event
		pol          *domain.Politician
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		customerIden, err = h.Redis.CustomerIden(ctx, u.Iden)
		return err
	})
	g.Go(func() error {
		var err error
		ev, err = h.Store.FindEvent(ctx, in.EventIden)
		return err
	})
	g.Go(func() error {
		var err error
		pol, err = h.Store.FindPolitician(ctx, in.PacIden)
		return err
	})
	if err := g.Wait(); err != nil {
		storageFail(c, "contribution lookups for user "+u.Iden, err)
		return
	}

	switch {
	case customerIden == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "no payment method"})
		return
	case ev == nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event"})
		return
	case pol == nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pac"})
		return
	}
	support, ok := ev.Side(in.PacIden)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pac not listed for event"})
		return
	}

	// Dollars become cents only here, at the gateway boundary.
	chargeIden, err := h.Gateway.Charge(c.Request.Context(), customerIden, in.Amount*100, payment.ChargeMeta{
		EventIden: in.EventIden,
		PacIden:   in.PacIden,
		Support:   support,
	})
	if err != nil {
		log.L().Warn("charge rejected", zap.String("user", u.Iden), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "charge rejected"})
		return
	}

	now := time.Now().Unix()
	contrib := &domain.Contribution{
		Iden:       h.NewIden(),
		ChargeIden: chargeIden,
		UserIden:   u.Iden,
		EventIden:  in.EventIden,
		PacIden:    in.PacIden,
		Amount:     in.Amount,
		Support:    support,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	// Money has been charged; from here the outcome is success no matter how
	// the bookkeeping goes. A detached context keeps a client disconnect from
	// cancelling the writes.
	h.recordContribution(context.Background(), contrib)

	metrics.ContributionsTotal.Inc()
	metrics.ContributionDollars.Add(float64(in.Amount))

	rid := requestID(c)
	go h.Events.Publish(context.Background(), queue.KeyContributionRecorded,
		queue.ContributionRecorded{
			ContributionIden: contrib.Iden,
			UserIden:         u.Iden,
			EventIden:        in.EventIden,
			PacIden:          in.PacIden,
			Amount:           in.Amount,
			Support:          support,
		}, rid)
	if u.Email != "" {
		go func() {
			subject := "Contribution receipt"
			body := fmt.Sprintf("Your contribution of $%d was received.", in.Amount)
			if err := h.Mail.Send(u.Email, subject, body); err != nil {
				log.L().Warn("receipt mail", zap.String("user", u.Iden), zap.Error(err))
			}
		}()
	}

	c.JSON(http.StatusOK, contrib)
}

// recordContribution fires the six bookkeeping writes concurrently with no
// ordering among them. Failures are logged with the contribution iden for
// operator replay and never surfaced; none of the writes is replay-safe.
func (h *Handler) recordContribution(ctx context.Context, contrib *domain.Contribution) {
	writes := []struct {
		name string
		fn   func() error
	}{
		{"ledger insert", func() error { return h.Store.CreateContribution(ctx, contrib) }},
		{"user list push", func() error { return h.Redis.PushContribution(ctx, contrib.UserIden, contrib.Iden) }},
		{"event sum", func() error {
			return h.Redis.IncrEventSum(ctx, contrib.EventIden, contrib.Support, contrib.Amount)
		}},
		{"politician sum", func() error {
			return h.Redis.IncrPoliticianSum(ctx, contrib.PacIden, contrib.Support, contrib.Amount)
		}},
		{"global sum", func() error { return h.Redis.IncrGlobalSum(ctx, contrib.Amount) }},
		{"user sum", func() error { return h.Redis.IncrUserSum(ctx, contrib.UserIden, contrib.Amount) }},
	}
	var wg sync.WaitGroup
	for _, w := range writes {
		wg.Add(1)
		go func(name string, fn func() error) {
			defer wg.Done()
			if err := fn(); err != nil {
				log.L().Error("bookkeeping write failed",
					zap.String("write", name),
					zap.String("contribution", contrib.Iden),
					zap.Error(err))
			}
		}(w.name, w.fn)
	}
	wg.Wait()
}

// ListPoliticians godoc
// @Summary Politicians for the admin page
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]any
// @Router /v1/politicians [get]
func (h *Handler) ListPoliticians(c *gin.Context) {
	ps, err := h.Store.ListPoliticians(c.Request.Context())
	if err != nil {
		storageFail(c, "politicians list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"politicians": ps})
}

type createPoliticianReq struct {
	Name string `json:"name"`
}

func (h *Handler) CreatePolitician(c *gin.Context) {
	var in createPoliticianReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	p := &domain.Politician{
		Iden:      h.NewIden(),
		Name:      in.Name,
		CreatedAt: time.Now().Unix(),
	}
	if err := h.Store.CreatePolitician(c.Request.Context(), p); err != nil {
		storageFail(c, "politician create", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type createEventReq struct {
	Name        string   `json:"name"`
	SupportPacs []string `json:"supportPacs"`
	OpposePacs  []string `json:"opposePacs"`
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var in createEventReq
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	ev := &domain.Event{
		Iden:        h.NewIden(),
		Name:        in.Name,
		SupportPacs: in.SupportPacs,
		OpposePacs:  in.OpposePacs,
		CreatedAt:   time.Now().Unix(),
	}
	if err := h.Store.CreateEvent(c.Request.Context(), ev); err != nil {
		storageFail(c, "event create", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// EventContributions returns up to the 10 most recent ledger rows for an
// event. Consumed by the event pages, separate from the authed API.
func (h *Handler) EventContributions(c *gin.Context) {
	cs, err := h.Store.RecentEventContributions(c.Request.Context(), c.Param("id"), 10)
	if err != nil {
		storageFail(c, "event contributions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contributions": cs})
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Redis.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"conferenceregistration/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeCouponRepo implements domain.CouponRepository in memory.
type fakeCouponRepo struct {
	byCode      map[string]*domain.CouponCode
	redemptions map[string]bool // code|email
	getErr      error
	redeemErr   error
	createErr   error
}

func newFakeCouponRepo(coupons ...*domain.CouponCode) *fakeCouponRepo {
	f := &fakeCouponRepo{byCode: map[string]*domain.CouponCode{}, redemptions: map[string]bool{}}
	for _, c := range coupons {
		f.byCode[c.Code] = c
	}
	return f
}

func (f *fakeCouponRepo) Create(ctx context.Context, coupon *domain.CouponCode) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byCode[coupon.Code]; ok {
		return domain.ErrAlreadyExists
	}
	coupon.ID = "cp-" + coupon.Code
	f.byCode[coupon.Code] = coupon
	return nil
}

func (f *fakeCouponRepo) GetByCode(ctx context.Context, code string) (*domain.CouponCode, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	c, ok := f.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeCouponRepo) List(ctx context.Context) ([]*domain.CouponCode, error) {
	var out []*domain.CouponCode
	for _, c := range f.byCode {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCouponRepo) HasRedemption(ctx context.Context, code, email string) (bool, error) {
	return f.redemptions[code+"|"+email], nil
}

func (f *fakeCouponRepo) Redeem(ctx context.Context, code, email string, incrementUsage bool) (bool, error) {
	if f.redeemErr != nil {
		return false, f.redeemErr
	}
	key := code + "|" + email
	if f.redemptions[key] {
		return false, nil
	}
	f.redemptions[key] = true
	if incrementUsage {
		c, ok := f.byCode[code]
		if !ok {
			return false, domain.ErrNotFound
		}
		c.UsageCount++
	}
	return true, nil
}

// fakeRegistrationRepo implements domain.RegistrationRepository in memory.
type fakeRegistrationRepo struct {
	byEmail map[string]*domain.Registration
	// raceOnCreate simulates a concurrent insert: the first Create stores this row and fails with ErrDuplicateEmail.
	raceOnCreate *domain.Registration
	getErr       error
	createErr    error
	updateErr    error
	creates      int
	updates      int
	verified     map[string]bool
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{byEmail: map[string]*domain.Registration{}, verified: map[string]bool{}}
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	f.creates++
	if f.createErr != nil {
		return f.createErr
	}
	if f.raceOnCreate != nil {
		winner := *f.raceOnCreate
		f.byEmail[winner.Email] = &winner
		f.raceOnCreate = nil
		return domain.ErrDuplicateEmail
	}
	if _, ok := f.byEmail[reg.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	reg.ID = "reg-" + reg.Email
	stored := *reg
	f.byEmail[reg.Email] = &stored
	return nil
}

func (f *fakeRegistrationRepo) GetByEmail(ctx context.Context, email string) (*domain.Registration, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	cur, ok := f.byEmail[reg.Email]
	if !ok {
		return domain.ErrNotFound
	}
	stored := *reg
	stored.EmailVerified = cur.EmailVerified
	f.byEmail[reg.Email] = &stored
	return nil
}

func (f *fakeRegistrationRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	var out []*domain.Registration
	for _, r := range f.byEmail {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRegistrationRepo) MarkEmailVerified(ctx context.Context, email string) (bool, error) {
	r, ok := f.byEmail[email]
	if !ok {
		return false, nil
	}
	r.EmailVerified = true
	f.verified[email] = true
	return true, nil
}

// fakeGroupRepo implements domain.GroupRepository in memory.
type fakeGroupRepo struct {
	byLead     map[string]*domain.GroupRegistration
	members    map[string][]string // groupID -> emails
	verified   map[string]bool
	upsertErr  error
	replaceErr error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		byLead:   map[string]*domain.GroupRegistration{},
		members:  map[string][]string{},
		verified: map[string]bool{},
	}
}

func (f *fakeGroupRepo) Upsert(ctx context.Context, group *domain.GroupRegistration) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if cur, ok := f.byLead[group.LeadEmail]; ok {
		group.ID = cur.ID
	} else {
		group.ID = "grp-" + group.LeadEmail
	}
	stored := *group
	f.byLead[group.LeadEmail] = &stored
	return nil
}

func (f *fakeGroupRepo) GetByLeadEmail(ctx context.Context, leadEmail string) (*domain.GroupRegistration, error) {
	g, ok := f.byLead[leadEmail]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (f *fakeGroupRepo) ReplaceMembers(ctx context.Context, groupID string, emails []string) ([]string, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	var added []string
	for _, e := range emails {
		if !slices.Contains(f.members[groupID], e) {
			added = append(added, e)
		}
	}
	f.members[groupID] = slices.Clone(emails)
	return added, nil
}

func (f *fakeGroupRepo) AddMembers(ctx context.Context, groupID string, emails []string) ([]string, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	var added []string
	for _, e := range emails {
		if !slices.Contains(f.members[groupID], e) {
			added = append(added, e)
			f.members[groupID] = append(f.members[groupID], e)
		}
	}
	return added, nil
}

func (f *fakeGroupRepo) ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	var out []*domain.GroupMember
	for _, e := range f.members[groupID] {
		out = append(out, &domain.GroupMember{GroupID: groupID, Email: e, EmailVerified: f.verified[e]})
	}
	return out, nil
}

func (f *fakeGroupRepo) MarkMemberEmailVerified(ctx context.Context, email string) (bool, error) {
	for _, emails := range f.members {
		if slices.Contains(emails, email) {
			f.verified[email] = true
			return true, nil
		}
	}
	return false, nil
}

// fakeProvider implements domain.PaymentProvider. With block set, CreateCheckoutSession
// waits for the context to end.
type fakeProvider struct {
	mu         sync.Mutex
	calls      int
	lastParams *domain.CheckoutSessionParams
	err        error
	block      bool
	status     *domain.CheckoutSessionStatus
	statusErr  error
}

func (f *fakeProvider) CreateCheckoutSession(ctx context.Context, params *domain.CheckoutSessionParams) (*domain.CheckoutSession, error) {
	f.mu.Lock()
	f.calls++
	f.lastParams = params
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CheckoutSession{
		SessionID: "cs_test_" + params.IdempotencyKey[len(params.IdempotencyKey)-6:],
		URL:       "https://checkout.stripe.com/pay",
	}, nil
}

func (f *fakeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*domain.CheckoutSessionStatus, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.status, nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeSessionCache implements domain.CheckoutSessionCache in memory.
type fakeSessionCache struct {
	sessions map[string]domain.CheckoutSession
	setErr   error
	getErr   error
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: map[string]domain.CheckoutSession{}}
}

func (f *fakeSessionCache) Get(ctx context.Context, key string) (*domain.CheckoutSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessionCache) Set(ctx context.Context, key string, session *domain.CheckoutSession, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.sessions[key] = *session
	return nil
}

// fakeEmailService records the emails the registration service asks for.
type fakeEmailService struct {
	confirmations []*domain.RegistrationConfirmationEmailData
	verifications []*domain.EmailVerificationData
	invites       []*domain.GroupMemberInviteEmailData
	err           error
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationConfirmationEmailData) error {
	f.confirmations = append(f.confirmations, data)
	return f.err
}

func (f *fakeEmailService) SendEmailVerification(ctx context.Context, data *domain.EmailVerificationData) error {
	f.verifications = append(f.verifications, data)
	return f.err
}

func (f *fakeEmailService) SendGroupMemberInvite(ctx context.Context, data *domain.GroupMemberInviteEmailData) error {
	f.invites = append(f.invites, data)
	return f.err
}

// fakeTokens implements domain.TokenIssuer and domain.TokenVerifier. Tokens are
// "tok:<email>:<scope>".
type fakeTokens struct {
	issueErr error
	issued   []string
}

func (f *fakeTokens) Issue(subject, email string, scopes []string, expiry time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	tok := "tok:" + email + ":" + scopes[0]
	f.issued = append(f.issued, tok)
	return tok, nil
}

func (f *fakeTokens) Verify(token string) (*domain.TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "tok" {
		return nil, errors.New("malformed token")
	}
	return &domain.TokenClaims{Subject: parts[1], Email: parts[1], Scopes: []string{parts[2]}}, nil
}

// fakeHasher treats "hash:<password>" as the hash of password.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

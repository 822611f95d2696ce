package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domainauth "kisansetu/internal/domain/auth"
	domainuser "kisansetu/internal/domain/user"
)

type mockUserRepo struct {
	byID    map[domainuser.ID]*domainuser.User
	byEmail map[string]*domainuser.User
	saved   []*domainuser.User
	saveErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    map[domainuser.ID]*domainuser.User{},
		byEmail: map[string]*domainuser.User{},
	}
}

func (m *mockUserRepo) add(u *domainuser.User) {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
}

func (m *mockUserRepo) ByID(_ context.Context, id domainuser.ID) (*domainuser.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domainuser.ErrNotFound
}

func (m *mockUserRepo) ByEmail(_ context.Context, email string) (*domainuser.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domainuser.ErrNotFound
}

func (m *mockUserRepo) Save(_ context.Context, u *domainuser.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, u)
	m.add(u)
	return nil
}

type mockSessionStore struct {
	sessions map[domainauth.Token]*domainauth.Session
	deleted  []domainauth.Token
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[domainauth.Token]*domainauth.Session{}}
}

func (m *mockSessionStore) Save(_ context.Context, s *domainauth.Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, token domainauth.Token) (*domainauth.Session, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, domainauth.ErrSessionNotFound
}

func (m *mockSessionStore) Delete(_ context.Context, token domainauth.Token) error {
	delete(m.sessions, token)
	m.deleted = append(m.deleted, token)
	return nil
}

func (m *mockSessionStore) DeleteByUser(_ context.Context, userID domainuser.ID) error {
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
			m.deleted = append(m.deleted, token)
		}
	}
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fixedTokens struct {
	token string
}

func (f fixedTokens) NewToken() (string, error) { return f.token, nil }

func newService(users *mockUserRepo, sessions *mockSessionStore, token string) *Service {
	return &Service{
		Users:     users,
		Sessions:  sessions,
		Passwords: plainHasher{},
		Tokens:    fixedTokens{token: token},
	}
}

func TestSignupCreatesUserAndSession(t *testing.T) {
	users := newMockUserRepo()
	sessions := newMockSessionStore()
	svc := newService(users, sessions, "tok-1")

	result, err := svc.Signup(context.Background(), SignupParams{
		Email:    "  Ravi@Example.COM ",
		Name:     "Ravi",
		Password: "secret1",
		IsFarmer: true,
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if result.Token != "tok-1" {
		t.Fatalf("token = %q, want tok-1", result.Token)
	}
	if result.User.Email != "ravi@example.com" {
		t.Fatalf("email not normalized: %q", result.User.Email)
	}
	if !result.User.HasRole(domainuser.RoleFarmer) || !result.User.HasRole(domainuser.RoleBuyer) {
		t.Fatalf("farmer signup should carry buyer and farmer roles, got %v", result.User.Roles)
	}
	if len(users.saved) != 1 {
		t.Fatalf("saved %d users, want 1", len(users.saved))
	}
	session, ok := sessions.sessions["tok-1"]
	if !ok {
		t.Fatal("session not stored")
	}
	if session.UserID != result.User.ID {
		t.Fatalf("session user = %q, want %q", session.UserID, result.User.ID)
	}
}

func TestSignupBuyerOnlyByDefault(t *testing.T) {
	svc := newService(newMockUserRepo(), newMockSessionStore(), "tok-1")

	result, err := svc.Signup(context.Background(), SignupParams{
		Email:    "meera@example.com",
		Name:     "Meera",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if result.User.HasRole(domainuser.RoleFarmer) {
		t.Fatal("non-farmer signup should not carry the farmer role")
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	users := newMockUserRepo()
	svc := newService(users, newMockSessionStore(), "tok-1")

	_, err := svc.Signup(context.Background(), SignupParams{
		Email:    "ravi@example.com",
		Name:     "Ravi",
		Password: "12345",
	})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}
	if len(users.saved) != 0 {
		t.Fatal("no user should be saved on validation failure")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	users := newMockUserRepo()
	users.saveErr = domainuser.ErrEmailAlreadyUsed
	svc := newService(users, newMockSessionStore(), "tok-1")

	_, err := svc.Signup(context.Background(), SignupParams{
		Email:    "ravi@example.com",
		Name:     "Ravi",
		Password: "secret1",
	})
	if !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Fatalf("err = %v, want ErrEmailAlreadyUsed", err)
	}
}

func TestLoginIssuesSession(t *testing.T) {
	users := newMockUserRepo()
	users.add(&domainuser.User{
		ID:           "u-1",
		Email:        "ravi@example.com",
		Name:         "Ravi",
		PasswordHash: "hashed:secret1",
		Roles:        []domainuser.Role{domainuser.RoleBuyer},
	})
	sessions := newMockSessionStore()
	svc := newService(users, sessions, "tok-login")

	result, err := svc.Login(context.Background(), LoginParams{Email: "Ravi@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != "u-1" {
		t.Fatalf("user = %q, want u-1", result.User.ID)
	}
	if _, ok := sessions.sessions["tok-login"]; !ok {
		t.Fatal("session not stored")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	users := newMockUserRepo()
	users.add(&domainuser.User{
		ID:           "u-1",
		Email:        "ravi@example.com",
		PasswordHash: "hashed:secret1",
	})
	svc := newService(users, newMockSessionStore(), "tok-1")

	_, err := svc.Login(context.Background(), LoginParams{Email: "ravi@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmailMasksNotFound(t *testing.T) {
	svc := newService(newMockUserRepo(), newMockSessionStore(), "tok-1")

	_, err := svc.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "secret1"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestResolveTokenReturnsUser(t *testing.T) {
	users := newMockUserRepo()
	users.add(&domainuser.User{ID: "u-1", Email: "ravi@example.com", PasswordHash: "x"})
	sessions := newMockSessionStore()
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  "tok-1",
		UserID: "u-1",
		TTL:    time.Hour,
		Now:    time.Now(),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sessions.sessions[session.Token] = session
	svc := newService(users, sessions, "unused")

	resolved, err := svc.ResolveToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.User.ID != "u-1" {
		t.Fatalf("user = %q, want u-1", resolved.User.ID)
	}
}

func TestResolveTokenExpiredSessionIsDropped(t *testing.T) {
	users := newMockUserRepo()
	users.add(&domainuser.User{ID: "u-1", Email: "ravi@example.com", PasswordHash: "x"})
	sessions := newMockSessionStore()
	past := time.Now().Add(-2 * time.Hour)
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  "tok-old",
		UserID: "u-1",
		TTL:    time.Hour,
		Now:    past,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	sessions.sessions[session.Token] = session
	svc := newService(users, sessions, "unused")

	_, err = svc.ResolveToken(context.Background(), "tok-old")
	if !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
	if _, ok := sessions.sessions["tok-old"]; ok {
		t.Fatal("expired session should be deleted")
	}
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	users := newMockUserRepo()
	users.add(&domainuser.User{
		ID:           "u-1",
		Email:        "ravi@example.com",
		PasswordHash: "hashed:old-secret",
	})
	sessions := newMockSessionStore()
	sessions.sessions["tok-phone"] = &domainauth.Session{Token: "tok-phone", UserID: "u-1"}
	sessions.sessions["tok-laptop"] = &domainauth.Session{Token: "tok-laptop", UserID: "u-1"}
	sessions.sessions["tok-other"] = &domainauth.Session{Token: "tok-other", UserID: "u-2"}
	svc := newService(users, sessions, "tok-new")

	err := svc.ChangePassword(context.Background(), ChangePasswordParams{
		UserID:          "u-1",
		CurrentPassword: "old-secret",
		NewPassword:     "new-secret",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, ok := sessions.sessions["tok-phone"]; ok {
		t.Fatal("phone session survived password change")
	}
	if _, ok := sessions.sessions["tok-laptop"]; ok {
		t.Fatal("laptop session survived password change")
	}
	if _, ok := sessions.sessions["tok-other"]; !ok {
		t.Fatal("another user's session was revoked")
	}

	if _, err := svc.Login(context.Background(), LoginParams{Email: "ravi@example.com", Password: "old-secret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginParams{Email: "ravi@example.com", Password: "new-secret"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	users := newMockUserRepo()
	users.add(&domainuser.User{
		ID:           "u-1",
		Email:        "ravi@example.com",
		PasswordHash: "hashed:old-secret",
	})
	sessions := newMockSessionStore()
	sessions.sessions["tok-1"] = &domainauth.Session{Token: "tok-1", UserID: "u-1"}
	svc := newService(users, sessions, "unused")

	err := svc.ChangePassword(context.Background(), ChangePasswordParams{
		UserID:          "u-1",
		CurrentPassword: "wrong",
		NewPassword:     "new-secret",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, ok := sessions.sessions["tok-1"]; !ok {
		t.Fatal("sessions must survive a rejected password change")
	}
	if users.byID["u-1"].PasswordHash != "hashed:old-secret" {
		t.Fatal("password hash changed on rejected request")
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	sessions := newMockSessionStore()
	sessions.sessions["tok-1"] = &domainauth.Session{Token: "tok-1", UserID: "u-1"}
	svc := newService(newMockUserRepo(), sessions, "unused")

	if err := svc.Logout(context.Background(), "tok-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := sessions.sessions["tok-1"]; ok {
		t.Fatal("session should be deleted")
	}
	// Logging out an empty token is a no-op, not an error.
	if err := svc.Logout(context.Background(), "  "); err != nil {
		t.Fatalf("logout empty token: %v", err)
	}
}

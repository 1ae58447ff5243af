package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock credential store: maps user_code -> (digest, user_name)
type mockCredentialStore struct {
	digests       map[string]string
	names         map[string]string
	returnError   bool
	errorToReturn error
}

func newMockCredentialStore(digester *PasswordDigester) *mockCredentialStore {
	return &mockCredentialStore{
		digests: map[string]string{
			"alice": digester.Digest("correct_password"),
			"bob":   digester.Digest("another_password"),
		},
		names: map[string]string{
			"alice": "Alice Anderson",
			"bob":   "Bob Brown",
		},
	}
}

func (m *mockCredentialStore) LookupCredentials(ctx context.Context, userCode, digest string) (*CredentialRecord, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if stored, ok := m.digests[userCode]; ok && stored == digest {
		return &CredentialRecord{UserCode: userCode, UserName: m.names[userCode]}, nil
	}
	return nil, nil
}

func (m *mockCredentialStore) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

type mockGroupResolver struct {
	groups        map[string]string
	returnError   bool
	errorToReturn error
}

func (m *mockGroupResolver) EffectiveGroup(ctx context.Context, userCode string) (string, error) {
	if m.returnError {
		return "", m.errorToReturn
	}
	return m.groups[userCode], nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		repo     *mockCredentialStore
		resolver *mockGroupResolver
		digester *PasswordDigester
		issuer   *SessionTokenIssuer
	)

	ginkgo.BeforeEach(func() {
		digester = NewPasswordDigester("test-pepper", 10000)
		issuer = NewSessionTokenIssuer("test-secret-at-least-32-characters!!", time.Hour)
		repo = newMockCredentialStore(digester)
		resolver = &mockGroupResolver{groups: map[string]string{"alice": "Admin"}}
		service = NewService(repo, digester, issuer, resolver, slog.Default())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should issue a session token", func() {
				token, err := service.Authenticate(context.Background(), LoginDTO{
					UserCode: "alice",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(token.Token).ToNot(gomega.BeEmpty())
				gomega.Expect(token.UserCode).To(gomega.Equal("alice"))
				gomega.Expect(token.UserName).To(gomega.Equal("Alice Anderson"))
				gomega.Expect(token.ExpiresAt).To(gomega.BeTemporally(">", time.Now()))
			})

			ginkgo.It("should issue a token that validates back to the same claims", func() {
				token, err := service.Authenticate(context.Background(), LoginDTO{
					UserCode: "bob",
					Password: "another_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateSessionToken(token.Token)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserCode).To(gomega.Equal("bob"))
				gomega.Expect(claims.UserName).To(gomega.Equal("Bob Brown"))
			})
		})

		ginkgo.Context("when credentials are wrong", func() {
			ginkgo.It("should reject a wrong password", func() {
				_, err := service.Authenticate(context.Background(), LoginDTO{
					UserCode: "alice",
					Password: "wrong_password",
				})
				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})

			ginkgo.It("should reject an unknown user the same way as a wrong password", func() {
				_, err := service.Authenticate(context.Background(), LoginDTO{
					UserCode: "mallory",
					Password: "correct_password",
				})
				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when credentials are blank", func() {
			ginkgo.It("should reject a missing user code", func() {
				_, err := service.Authenticate(context.Background(), LoginDTO{Password: "x"})
				gomega.Expect(err).To(gomega.MatchError(ErrMissingCredentials))
			})

			ginkgo.It("should reject a missing password", func() {
				_, err := service.Authenticate(context.Background(), LoginDTO{UserCode: "alice"})
				gomega.Expect(err).To(gomega.MatchError(ErrMissingCredentials))
			})
		})

		ginkgo.Context("when the credential store is down", func() {
			ginkgo.It("should fail with a store error, not an invalid-credentials error", func() {
				repo.setError(errors.New("connection refused"))

				_, err := service.Authenticate(context.Background(), LoginDTO{
					UserCode: "alice",
					Password: "correct_password",
				})
				gomega.Expect(errors.Is(err, ErrStoreUnavailable)).To(gomega.BeTrue())
			})
		})
	})

	ginkgo.Describe("ValidateSessionToken", func() {
		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.ValidateSessionToken("not-a-token")
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("should reject expired tokens", func() {
			expiredIssuer := NewSessionTokenIssuer("test-secret-at-least-32-characters!!", -time.Hour)
			token, _, err := expiredIssuer.Issue("alice", "Alice Anderson")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateSessionToken(token)
			gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
		})

		ginkgo.It("should reject tokens signed with a different secret", func() {
			otherIssuer := NewSessionTokenIssuer("a-completely-different-signing-secret", time.Hour)
			token, _, err := otherIssuer.Issue("alice", "Alice Anderson")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateSessionToken(token)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})
	})

	ginkgo.Describe("ResolveSession", func() {
		ginkgo.It("should rebuild the session with the effective group", func() {
			claims := &Claims{UserCode: "alice", UserName: "Alice Anderson"}

			sess, err := service.ResolveSession(context.Background(), claims)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.UserCode).To(gomega.Equal("alice"))
			gomega.Expect(sess.EffectiveGroup).To(gomega.Equal("Admin"))
			gomega.Expect(sess.LoggedIn).To(gomega.BeTrue())
		})

		ginkgo.It("should leave the group empty for users with no group grants", func() {
			claims := &Claims{UserCode: "bob", UserName: "Bob Brown"}

			sess, err := service.ResolveSession(context.Background(), claims)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sess.EffectiveGroup).To(gomega.BeEmpty())
		})

		ginkgo.It("should fail closed when group resolution is unavailable", func() {
			resolver.returnError = true
			resolver.errorToReturn = errors.New("connection refused")

			sess, err := service.ResolveSession(context.Background(), &Claims{UserCode: "alice"})
			gomega.Expect(sess).To(gomega.BeNil())
			gomega.Expect(errors.Is(err, ErrStoreUnavailable)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("PasswordDigester", func() {
		ginkgo.It("should be deterministic for the same input", func() {
			gomega.Expect(digester.Digest("secret")).To(gomega.Equal(digester.Digest("secret")))
		})

		ginkgo.It("should produce different digests for different peppers", func() {
			other := NewPasswordDigester("other-pepper", 10000)
			gomega.Expect(digester.Digest("secret")).ToNot(gomega.Equal(other.Digest("secret")))
		})
	})
})

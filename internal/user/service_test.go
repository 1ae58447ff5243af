package user

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/gorm"

	apperrors "github.com/wofodev/meerkat/internal"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type staticDigester struct{}

func (staticDigester) Digest(raw string) string { return "digest:" + raw }

type mockUserRepo struct {
	users      map[string]*directoryDatamodel.User
	grantCount int64
	createErr  error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*directoryDatamodel.User{}}
}

func (m *mockUserRepo) GetAll(ctx context.Context) ([]*directoryDatamodel.User, error) {
	out := make([]*directoryDatamodel.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) GetByCode(ctx context.Context, code string) (*directoryDatamodel.User, error) {
	if u, ok := m.users[code]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, u *directoryDatamodel.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[u.UserCode]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.users[u.UserCode] = u
	return nil
}

func (m *mockUserRepo) Rename(ctx context.Context, originalCode string, u *directoryDatamodel.User) error {
	if _, ok := m.users[originalCode]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, originalCode)
	m.users[u.UserCode] = u
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, code string) error {
	if _, ok := m.users[code]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, code)
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, code, digest string) error {
	u, ok := m.users[code]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = digest
	return nil
}

func (m *mockUserRepo) GrantCount(ctx context.Context, code string) (int64, error) {
	return m.grantCount, nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service *Service
		repo    *mockUserRepo
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		repo = newMockUserRepo()
		service = NewService(repo, staticDigester{}, nil, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("CreateUser", func() {
		ginkgo.It("stores the digest, never the raw password", func() {
			resp, err := service.CreateUser(ctx, CreateUserDTO{
				UserCode: "alice", UserName: "Alice", Password: "secret",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.UserCode).To(gomega.Equal("alice"))
			gomega.Expect(repo.users["alice"].Password).To(gomega.Equal("digest:secret"))
		})

		ginkgo.It("rejects a blank password before any store call", func() {
			_, err := service.CreateUser(ctx, CreateUserDTO{UserCode: "alice", UserName: "Alice"})
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
			gomega.Expect(repo.users).To(gomega.BeEmpty())
		})

		ginkgo.It("maps a duplicate key to a conflict", func() {
			_, err := service.CreateUser(ctx, CreateUserDTO{UserCode: "alice", UserName: "Alice", Password: "x"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.CreateUser(ctx, CreateUserDTO{UserCode: "alice", UserName: "Other", Password: "y"})
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeDuplicateKey))
		})
	})

	ginkgo.Describe("DeleteUser", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.CreateUser(ctx, CreateUserDTO{UserCode: "alice", UserName: "Alice", Password: "x"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("rejects the delete while grants still reference the user", func() {
			repo.grantCount = 3

			err := service.DeleteUser(ctx, "alice")
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeReferentialConflict))
			gomega.Expect(repo.users).To(gomega.HaveKey("alice"))
		})

		ginkgo.It("deletes once no grants remain", func() {
			gomega.Expect(service.DeleteUser(ctx, "alice")).To(gomega.Succeed())
			gomega.Expect(repo.users).ToNot(gomega.HaveKey("alice"))
		})

		ginkgo.It("reports an unknown user", func() {
			err := service.DeleteUser(ctx, "nobody")
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeNotFound))
		})
	})

	ginkgo.Describe("ChangePassword", func() {
		ginkgo.BeforeEach(func() {
			_, err := service.CreateUser(ctx, CreateUserDTO{UserCode: "alice", UserName: "Alice", Password: "x"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a blank password before any store call", func() {
			err := service.ChangePassword(ctx, "alice", ChangePasswordDTO{})
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
			gomega.Expect(repo.users["alice"].Password).To(gomega.Equal("digest:x"))
		})

		ginkgo.It("replaces the digest for a valid password", func() {
			gomega.Expect(service.ChangePassword(ctx, "alice", ChangePasswordDTO{NewPassword: "new"})).To(gomega.Succeed())
			gomega.Expect(repo.users["alice"].Password).To(gomega.Equal("digest:new"))
		})
	})

	ginkgo.Describe("UpdateUser", func() {
		ginkgo.It("renames through the repository", func() {
			_, err := service.CreateUser(ctx, CreateUserDTO{UserCode: "alice", UserName: "Alice", Password: "x"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			resp, err := service.UpdateUser(ctx, "alice", UpdateUserDTO{UserCode: "alice2", UserName: "Alice Two"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.UserCode).To(gomega.Equal("alice2"))
			gomega.Expect(repo.users).To(gomega.HaveKey("alice2"))
			gomega.Expect(repo.users).ToNot(gomega.HaveKey("alice"))
		})
	})
})

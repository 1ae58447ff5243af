package grant

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

func TestGrant(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Grant Module Suite")
}

type mockGrantRepo struct {
	grants   map[int64]*directoryDatamodel.AccessGrant
	nextID   int64
	users    map[string]bool
	groups   map[string]bool
	sections map[string]bool
	pages    map[string]bool
	links    map[string]bool // "user|group"
}

func newMockGrantRepo() *mockGrantRepo {
	return &mockGrantRepo{
		grants:   map[int64]*directoryDatamodel.AccessGrant{},
		nextID:   1,
		users:    map[string]bool{"alice": true, "bob": true},
		groups:   map[string]bool{"g1": true},
		sections: map[string]bool{"s1": true},
		pages:    map[string]bool{"R_S_Summary": true, "MAC_Users": true},
		links:    map[string]bool{},
	}
}

func (m *mockGrantRepo) GetAll(ctx context.Context) ([]*Record, error) {
	return nil, nil
}

func (m *mockGrantRepo) Create(ctx context.Context, g *directoryDatamodel.AccessGrant) error {
	g.ID = m.nextID
	m.nextID++
	m.grants[g.ID] = g
	if g.GroupCode != nil {
		m.links[g.UserCode+"|"+*g.GroupCode] = true
	}
	return nil
}

func (m *mockGrantRepo) Update(ctx context.Context, id int64, g *directoryDatamodel.AccessGrant) error {
	if _, ok := m.grants[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	g.ID = id
	m.grants[id] = g
	return nil
}

func (m *mockGrantRepo) Delete(ctx context.Context, id int64) (*directoryDatamodel.AccessGrant, error) {
	g, ok := m.grants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(m.grants, id)
	return g, nil
}

func (m *mockGrantRepo) UserExists(ctx context.Context, code string) (bool, error) {
	return m.users[code], nil
}

func (m *mockGrantRepo) GroupExists(ctx context.Context, code string) (bool, error) {
	return m.groups[code], nil
}

func (m *mockGrantRepo) SectionExists(ctx context.Context, code string) (bool, error) {
	return m.sections[code], nil
}

func (m *mockGrantRepo) PageExists(ctx context.Context, ref string) (bool, error) {
	return m.pages[ref], nil
}

func (m *mockGrantRepo) UserLinkedToGroup(ctx context.Context, userCode, groupCode string) (bool, error) {
	return m.links[userCode+"|"+groupCode], nil
}

var _ = ginkgo.Describe("GrantService", func() {
	var (
		service *Service
		repo    *mockGrantRepo
		ctx     context.Context
	)

	expectValidation := func(err error) {
		var appErr *apperrors.AppError
		gomega.ExpectWithOffset(1, errors.As(err, &appErr)).To(gomega.BeTrue())
		gomega.ExpectWithOffset(1, appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
	}

	ginkgo.BeforeEach(func() {
		repo = newMockGrantRepo()
		service = NewService(repo, nil, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("CreateGrant", func() {
		ginkgo.It("creates a direct user grant", func() {
			created, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "alice", PageRef: "R_S_Summary",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.ID).To(gomega.BeNumerically(">", 0))
		})

		ginkgo.It("rejects an unknown user", func() {
			_, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "mallory", PageRef: "R_S_Summary",
			})
			expectValidation(err)
		})

		ginkgo.It("rejects an unknown page", func() {
			_, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "alice", PageRef: "R_S_Nope",
			})
			expectValidation(err)
		})

		ginkgo.It("rejects an unknown section", func() {
			bad := "s9"
			_, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "alice", SectionCode: &bad, PageRef: "R_S_Summary",
			})
			expectValidation(err)
		})

		ginkgo.It("rejects a group grant without an established user-group link", func() {
			g1 := "g1"
			_, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "alice", GroupCode: &g1, PageRef: "R_S_Summary",
			})
			expectValidation(err)
		})

		ginkgo.It("accepts a group grant once the link exists", func() {
			repo.links["alice|g1"] = true

			g1 := "g1"
			created, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "alice", GroupCode: &g1, PageRef: "R_S_Summary",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*created.GroupCode).To(gomega.Equal("g1"))
		})

		ginkgo.It("rejects blank required fields", func() {
			_, err := service.CreateGrant(ctx, CreateGrantDTO{UserCode: "alice"})
			expectValidation(err)
		})
	})

	ginkgo.Describe("DeleteGrant", func() {
		ginkgo.It("revokes an existing grant", func() {
			created, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "alice", PageRef: "R_S_Summary",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.DeleteGrant(ctx, created.ID)).To(gomega.Succeed())
			gomega.Expect(repo.grants).To(gomega.BeEmpty())
		})

		ginkgo.It("reports an unknown grant id", func() {
			err := service.DeleteGrant(ctx, 42)
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeNotFound))
		})
	})

	ginkgo.Describe("UpdateGrant", func() {
		ginkgo.It("applies the same referential checks as creation", func() {
			created, err := service.CreateGrant(ctx, CreateGrantDTO{
				UserCode: "alice", PageRef: "R_S_Summary",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.UpdateGrant(ctx, created.ID, CreateGrantDTO{
				UserCode: "mallory", PageRef: "R_S_Summary",
			})
			expectValidation(err)
		})

		ginkgo.It("reports an unknown grant id", func() {
			_, err := service.UpdateGrant(ctx, 42, CreateGrantDTO{
				UserCode: "alice", PageRef: "R_S_Summary",
			})
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeNotFound))
		})
	})
})

package report

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/authz"
)

func TestReport(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Report Module Suite")
}

type mockAuthorizer struct {
	pages    []authz.PageAccess
	sections []string
	allowed  bool
	err      error
}

func (m *mockAuthorizer) ListAccessiblePages(ctx context.Context, userCode, refPrefix string) ([]authz.PageAccess, error) {
	return m.pages, m.err
}

func (m *mockAuthorizer) ListSections(ctx context.Context, userCode string) ([]string, error) {
	return m.sections, m.err
}

func (m *mockAuthorizer) HasAccess(ctx context.Context, userCode, sectionName string) (bool, error) {
	return m.allowed, m.err
}

var _ = ginkgo.Describe("ReportService", func() {
	var (
		service    *Service
		registry   *Registry
		authorizer *mockAuthorizer
		ctx        context.Context
	)

	ginkgo.BeforeEach(func() {
		registry = NewRegistry(
			Descriptor{Ref: "R_S_Summary", Name: "Returns Summary", Section: "Sales Returns"},
			Descriptor{Ref: "R_S_Trend", Name: "Returns Trend", Section: "Sales Returns"},
		)
		authorizer = &mockAuthorizer{}
		service = NewService(registry, authorizer, slog.Default())
		ctx = context.Background()
	})

	ginkgo.Describe("AccessibleReports", func() {
		ginkgo.It("intersects grants with the registry", func() {
			authorizer.pages = []authz.PageAccess{
				{PageRef: "R_S_Summary", PageName: "Returns Summary"},
			}

			reports, err := service.AccessibleReports(ctx, "u1", "R_S")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(reports).To(gomega.HaveLen(1))
			gomega.Expect(reports[0].Ref).To(gomega.Equal("R_S_Summary"))
		})

		ginkgo.It("drops grants pointing at unregistered references", func() {
			authorizer.pages = []authz.PageAccess{
				{PageRef: "R_S_Summary", PageName: "Returns Summary"},
				{PageRef: "R_S_Removed", PageName: "Gone"},
			}

			reports, err := service.AccessibleReports(ctx, "u1", "R_S")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(reports).To(gomega.HaveLen(1))
		})

		ginkgo.It("fails closed when authorization is unavailable", func() {
			authorizer.err = errors.New("connection refused")

			reports, err := service.AccessibleReports(ctx, "u1", "")
			gomega.Expect(reports).To(gomega.BeNil())
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeStoreUnavailable))
		})
	})

	ginkgo.Describe("OpenReport", func() {
		ginkgo.It("returns the descriptor when section access is granted", func() {
			authorizer.allowed = true

			d, err := service.OpenReport(ctx, "u1", "R_S_Summary")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(d.Section).To(gomega.Equal("Sales Returns"))
		})

		ginkgo.It("forbids when section access is not granted", func() {
			d, err := service.OpenReport(ctx, "u1", "R_S_Summary")
			gomega.Expect(d).To(gomega.BeNil())
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeForbidden))
		})

		ginkgo.It("reports an unknown reference", func() {
			_, err := service.OpenReport(ctx, "u1", "R_S_Nope")
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeNotFound))
		})

		ginkgo.It("denies on evaluation failure instead of guessing", func() {
			authorizer.allowed = true
			authorizer.err = errors.New("connection refused")

			d, err := service.OpenReport(ctx, "u1", "R_S_Summary")
			gomega.Expect(d).To(gomega.BeNil())
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Registry", func() {
		ginkgo.It("orders All by reference", func() {
			all := registry.All()
			gomega.Expect(all).To(gomega.HaveLen(2))
			gomega.Expect(all[0].Ref).To(gomega.Equal("R_S_Summary"))
			gomega.Expect(all[1].Ref).To(gomega.Equal("R_S_Trend"))
		})

		ginkgo.It("registers the stock sales-returns reports by default", func() {
			for _, d := range DefaultRegistry().All() {
				gomega.Expect(d.Ref).To(gomega.HavePrefix("R_S_"))
				gomega.Expect(d.Section).To(gomega.Equal("Sales Returns"))
			}
		})
	})
})

package postgres_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wofodev/meerkat/internal/authz"
	authzPostgres "github.com/wofodev/meerkat/internal/authz/postgres"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
)

func TestAuthzPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Authz Postgres Suite")
}

func strPtr(s string) *string { return &s }

var _ = Describe("Authz Repository", func() {
	var (
		db   *gorm.DB
		repo authz.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&directoryDatamodel.User{},
			&directoryDatamodel.Group{},
			&directoryDatamodel.Section{},
			&directoryDatamodel.Page{},
			&directoryDatamodel.AccessGrant{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = authzPostgres.NewRepository(db)
		ctx = context.Background()

		// Directory fixture: two users, one group, two sections, pages in
		// two feature families.
		Expect(db.Create(&directoryDatamodel.User{UserCode: "u1", UserName: "User One", Password: "d1"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.User{UserCode: "u2", UserName: "User Two", Password: "d2"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.Group{GroupCode: "g1", GroupName: "Admin"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.Group{GroupCode: "g2", GroupName: "Analysts"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.Section{SectionCode: "s1", SectionName: "Sales Returns"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.Section{SectionCode: "s2", SectionName: "Maintenance"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.Page{PageRef: "R_S_Summary", PageName: "Returns Summary"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.Page{PageRef: "R_S_Trend", PageName: "Returns Trend"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&directoryDatamodel.Page{PageRef: "MAC_Users", PageName: "User Maintenance"}).Error).NotTo(HaveOccurred())
	})

	Describe("HasSectionAccess", func() {
		It("grants through a direct user grant", func() {
			grant := &directoryDatamodel.AccessGrant{
				UserCode: "u1", SectionCode: strPtr("s1"), PageRef: "R_S_Summary",
			}
			Expect(db.Create(grant).Error).NotTo(HaveOccurred())

			allowed, err := repo.HasSectionAccess(ctx, "u1", "Sales Returns")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("grants through group membership", func() {
			// u2 is linked to g2, and g2 holds a grant into Sales Returns
			// through another member.
			link := &directoryDatamodel.AccessGrant{
				UserCode: "u2", GroupCode: strPtr("g2"), PageRef: "MAC_Users",
			}
			Expect(db.Create(link).Error).NotTo(HaveOccurred())
			groupGrant := &directoryDatamodel.AccessGrant{
				UserCode: "u1", GroupCode: strPtr("g2"), SectionCode: strPtr("s1"), PageRef: "R_S_Summary",
			}
			Expect(db.Create(groupGrant).Error).NotTo(HaveOccurred())

			allowed, err := repo.HasSectionAccess(ctx, "u2", "Sales Returns")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeTrue())
		})

		It("denies when no grant reaches the section", func() {
			allowed, err := repo.HasSectionAccess(ctx, "u1", "Sales Returns")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("denies after the grant is revoked", func() {
			grant := &directoryDatamodel.AccessGrant{
				UserCode: "u1", SectionCode: strPtr("s1"), PageRef: "R_S_Summary",
			}
			Expect(db.Create(grant).Error).NotTo(HaveOccurred())
			Expect(db.Delete(grant).Error).NotTo(HaveOccurred())

			allowed, err := repo.HasSectionAccess(ctx, "u1", "Sales Returns")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})

		It("does not leak another user's direct grant", func() {
			grant := &directoryDatamodel.AccessGrant{
				UserCode: "u1", SectionCode: strPtr("s1"), PageRef: "R_S_Summary",
			}
			Expect(db.Create(grant).Error).NotTo(HaveOccurred())

			allowed, err := repo.HasSectionAccess(ctx, "u2", "Sales Returns")
			Expect(err).NotTo(HaveOccurred())
			Expect(allowed).To(BeFalse())
		})
	})

	Describe("AccessiblePages", func() {
		BeforeEach(func() {
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", SectionCode: strPtr("s1"), PageRef: "R_S_Summary",
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", SectionCode: strPtr("s2"), PageRef: "MAC_Users",
			}).Error).NotTo(HaveOccurred())
		})

		It("filters by reference prefix", func() {
			pages, err := repo.AccessiblePages(ctx, "u1", "R_S")
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(1))
			Expect(pages[0].PageRef).To(Equal("R_S_Summary"))
		})

		It("returns all granted pages when the prefix is empty", func() {
			pages, err := repo.AccessiblePages(ctx, "u1", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(2))
		})

		It("includes pages inherited through a group", func() {
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u2", GroupCode: strPtr("g2"), PageRef: "MAC_Users",
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", GroupCode: strPtr("g2"), PageRef: "R_S_Trend",
			}).Error).NotTo(HaveOccurred())

			pages, err := repo.AccessiblePages(ctx, "u2", "R_S")
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(1))
			Expect(pages[0].PageRef).To(Equal("R_S_Trend"))
		})

		It("returns no pages for a user without grants", func() {
			pages, err := repo.AccessiblePages(ctx, "u2", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(BeEmpty())
		})
	})

	Describe("AccessibleSections", func() {
		It("lists distinct section names", func() {
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", SectionCode: strPtr("s1"), PageRef: "R_S_Summary",
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", SectionCode: strPtr("s1"), PageRef: "R_S_Trend",
			}).Error).NotTo(HaveOccurred())

			sections, err := repo.AccessibleSections(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(sections).To(Equal([]string{"Sales Returns"}))
		})
	})

	Describe("EffectiveGroup", func() {
		It("returns the group of the lowest grant id", func() {
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", GroupCode: strPtr("g1"), PageRef: "MAC_Users",
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", GroupCode: strPtr("g2"), PageRef: "R_S_Summary",
			}).Error).NotTo(HaveOccurred())

			group, err := repo.EffectiveGroup(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(group).To(Equal("Admin"))
		})

		It("skips grants without a group", func() {
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", PageRef: "R_S_Summary",
			}).Error).NotTo(HaveOccurred())
			Expect(db.Create(&directoryDatamodel.AccessGrant{
				UserCode: "u1", GroupCode: strPtr("g2"), PageRef: "R_S_Trend",
			}).Error).NotTo(HaveOccurred())

			group, err := repo.EffectiveGroup(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(group).To(Equal("Analysts"))
		})

		It("returns empty without error for a user with no group grants", func() {
			group, err := repo.EffectiveGroup(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(group).To(BeEmpty())
		})
	})
})

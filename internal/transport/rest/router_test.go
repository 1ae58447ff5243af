package rest

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "REST Transport Suite")
}

// The published contract lives in api/openapi.yml; this suite keeps it valid
// and in step with the routes the router actually mounts.
var _ = ginkgo.Describe("OpenAPI contract", func() {
	var doc *openapi3.T

	ginkgo.BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("is a valid OpenAPI 3 document", func() {
		gomega.Expect(doc.Validate(context.Background())).To(gomega.Succeed())
	})

	ginkgo.It("documents every mounted route", func() {
		expected := []string{
			"/health",
			"/ping",
			"/auth/login",
			"/auth/logout",
			"/users/me",
			"/reports",
			"/reports/sections",
			"/reports/{ref}",
			"/admin/users",
			"/admin/users/{code}",
			"/admin/users/{code}/password",
			"/admin/groups",
			"/admin/groups/{code}",
			"/admin/sections",
			"/admin/sections/{code}",
			"/admin/pages",
			"/admin/pages/{ref}",
			"/admin/grants",
			"/admin/grants/{id}",
		}

		for _, path := range expected {
			gomega.Expect(doc.Paths.Find(path)).ToNot(gomega.BeNil(), "missing path %s", path)
		}
	})

	ginkgo.It("requires a bearer token on every admin operation", func() {
		for path, item := range doc.Paths.Map() {
			if len(path) < 7 || path[:6] != "/admin" {
				continue
			}
			for _, op := range item.Operations() {
				gomega.Expect(op.Security).ToNot(gomega.BeNil(), "unsecured admin operation on %s", path)
			}
		}
	})
})

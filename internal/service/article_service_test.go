package service

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var _ = ginkgo.Describe("ArticleService", func() {
	var (
		ctx         context.Context
		clock       *fakeClock
		userRepo    *fakeUserRepository
		articleRepo *fakeArticleRepository
		svc         *ArticleService
		published   []events.Event

		endUser    *domain.User
		technician *domain.User
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		clock = newFakeClock()
		userRepo = newFakeUserRepository(clock)
		articleRepo = newFakeArticleRepository(clock)
		published = nil

		dispatcher := events.NewInMemoryDispatcher()
		dispatcher.Subscribe(events.EventArticlePublished, func(_ context.Context, event events.Event) error {
			published = append(published, event)
			return nil
		})

		svc = NewArticleService(ArticleDependencies{
			ArticleRepo: articleRepo,
			UserRepo:    userRepo,
			Dispatcher:  dispatcher,
		})

		endUser = seedUser(userRepo, "alice@corp.example", "Alice Nguyen", domain.RoleEndUser)
		technician = seedUser(userRepo, "priya@corp.example", "Priya Raman", domain.RoleTechnician)
	})

	ginkgo.Describe("Create", func() {
		input := ArticleCreateInput{
			Title:    " Resetting your VPN profile ",
			Content:  "Step one: open the client.",
			Category: "network",
			Tags:     []string{"vpn", "remote"},
		}

		ginkgo.It("publishes an article authored by the acting technician", func() {
			article, err := svc.Create(ctx, technician, input)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(article.ID).NotTo(gomega.BeEmpty())
			gomega.Expect(article.Title).To(gomega.Equal("Resetting your VPN profile"))
			gomega.Expect(article.AuthorID).To(gomega.Equal(technician.ID))
			gomega.Expect(article.AuthorName).To(gomega.Equal("Priya Raman"))
			gomega.Expect(published).To(gomega.HaveLen(1))
			gomega.Expect(published[0].Type).To(gomega.Equal(events.EventArticlePublished))
		})

		ginkgo.It("defaults absent tags to an empty list", func() {
			bare := input
			bare.Tags = nil

			article, err := svc.Create(ctx, technician, bare)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(article.Tags).NotTo(gomega.BeNil())
			gomega.Expect(article.Tags).To(gomega.BeEmpty())
		})

		ginkgo.It("rejects blank content", func() {
			bad := input
			bad.Content = "   "

			_, err := svc.Create(ctx, technician, bad)

			gomega.Expect(apperrors.IsCode(err, "VALIDATION_FAILED")).To(gomega.BeTrue())
		})

		ginkgo.It("denies end-users", func() {
			_, err := svc.Create(ctx, endUser, input)

			gomega.Expect(apperrors.IsCode(err, "UNAUTHORIZED")).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Update", func() {
		var article *domain.Article

		ginkgo.BeforeEach(func() {
			created, err := svc.Create(ctx, technician, ArticleCreateInput{
				Title: "Printer setup", Content: "Install the driver.", Category: "hardware",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			article = created
		})

		ginkgo.It("patches supplied fields and bumps lastUpdated", func() {
			before := article.LastUpdated

			id, err := svc.Update(ctx, technician, article.ID, ArticleUpdateInput{
				Content: ptr("Install the driver from the portal."),
			})

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(id).To(gomega.Equal(article.ID))
			stored, _ := articleRepo.GetByID(ctx, article.ID)
			gomega.Expect(stored.Content).To(gomega.Equal("Install the driver from the portal."))
			gomega.Expect(stored.Title).To(gomega.Equal("Printer setup"))
			gomega.Expect(stored.LastUpdated.After(before)).To(gomega.BeTrue())
		})

		ginkgo.It("reports a missing article", func() {
			_, err := svc.Update(ctx, technician, "55555555-5555-5555-5555-555555555555", ArticleUpdateInput{
				Title: ptr("Renamed"),
			})

			gomega.Expect(apperrors.IsCode(err, "NOT_FOUND")).To(gomega.BeTrue())
		})

		ginkgo.It("denies end-users", func() {
			_, err := svc.Update(ctx, endUser, article.ID, ArticleUpdateInput{Title: ptr("Renamed")})

			gomega.Expect(apperrors.IsCode(err, "UNAUTHORIZED")).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes the article permanently", func() {
			article, err := svc.Create(ctx, technician, ArticleCreateInput{
				Title: "Stale doc", Content: "Outdated.", Category: "other",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = svc.Delete(ctx, technician, article.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = articleRepo.GetByID(ctx, article.ID)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("denies end-users", func() {
			_, err := svc.Delete(ctx, endUser, "any-id")

			gomega.Expect(apperrors.IsCode(err, "UNAUTHORIZED")).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("reads", func() {
		ginkgo.BeforeEach(func() {
			_, err := svc.Create(ctx, technician, ArticleCreateInput{
				Title: "Mapping a network drive", Content: "Open explorer.", Category: "network",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			_, err = svc.Create(ctx, technician, ArticleCreateInput{
				Title: "Requesting new hardware", Content: "File a request.", Category: "hardware",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("lists newest-first without requiring an actor", func() {
			articles, err := svc.List(ctx)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(articles).To(gomega.HaveLen(2))
			gomega.Expect(articles[0].Title).To(gomega.Equal("Requesting new hardware"))
			gomega.Expect(articles[0].AuthorName).To(gomega.Equal("Priya Raman"))
		})

		ginkgo.It("searches titles only, case-insensitively", func() {
			articles, err := svc.Search(ctx, "NETWORK DRIVE")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(articles).To(gomega.HaveLen(1))
			gomega.Expect(articles[0].Title).To(gomega.Equal("Mapping a network drive"))
		})

		ginkgo.It("filters by category", func() {
			articles, err := svc.ListByCategory(ctx, "hardware")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(articles).To(gomega.HaveLen(1))
			gomega.Expect(articles[0].Title).To(gomega.Equal("Requesting new hardware"))
		})

		ginkgo.It("falls back to Unknown when the author record is gone", func() {
			gomega.Expect(userRepo.Delete(ctx, technician.ID)).To(gomega.Succeed())

			articles, err := svc.List(ctx)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(articles[0].AuthorName).To(gomega.Equal("Unknown"))
			gomega.Expect(articles[1].AuthorName).To(gomega.Equal("Unknown"))
		})
	})
})

package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var _ = ginkgo.Describe("AnonymizationService", func() {
	var (
		ctx        context.Context
		clock      *fakeClock
		userRepo   *fakeUserRepository
		ticketRepo *fakeTicketRepository
		svc        *AnonymizationService
		published  []events.Event

		admin  *domain.User
		target *domain.User
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		clock = newFakeClock()
		userRepo = newFakeUserRepository(clock)
		ticketRepo = newFakeTicketRepository(clock)
		published = nil

		dispatcher := events.NewInMemoryDispatcher()
		dispatcher.Subscribe(events.EventUserAnonymized, func(_ context.Context, event events.Event) error {
			published = append(published, event)
			return nil
		})

		svc = NewAnonymizationService(AnonymizationDependencies{
			UserRepo:   userRepo,
			TicketRepo: ticketRepo,
			Dispatcher: dispatcher,
		})

		admin = seedUser(userRepo, "omar@corp.example", "Omar Haddad", domain.RoleAdmin)
		target = seedUser(userRepo, "priya@corp.example", "Priya Raman", domain.RoleTechnician)
	})

	ginkgo.Describe("Anonymize", func() {
		var requested, assigned, inProgress *domain.Ticket

		ginkgo.BeforeEach(func() {
			requested = seedTicket(ticketRepo, domain.Ticket{
				Title: "Monitor flickers", RequesterName: "Priya Raman", RequesterEmail: "priya@corp.example",
				Status: domain.TicketStatusNew, Priority: domain.TicketPriorityLow, Category: domain.TicketCategoryHardware,
			})
			assigned = seedTicket(ticketRepo, domain.Ticket{
				Title: "License renewal", RequesterName: "Alice Nguyen", RequesterEmail: "alice@corp.example",
				Status: domain.TicketStatusAssigned, Priority: domain.TicketPriorityMedium, Category: domain.TicketCategorySoftware,
				AssignedTechnician: &target.ID,
			})
			inProgress = seedTicket(ticketRepo, domain.Ticket{
				Title: "Switch port dead", RequesterName: "Alice Nguyen", RequesterEmail: "alice@corp.example",
				Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityHigh, Category: domain.TicketCategoryNetwork,
				AssignedTechnician: &target.ID,
			})
		})

		ginkgo.It("redacts requested tickets, unassigns owned ones and deletes the user", func() {
			result, err := svc.Anonymize(ctx, admin, target.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.RedactedTickets).To(gomega.Equal(int64(1)))
			gomega.Expect(result.UnassignedTickets).To(gomega.Equal(int64(2)))

			redacted, _ := ticketRepo.GetByID(ctx, requested.ID)
			gomega.Expect(redacted.RequesterName).To(gomega.Equal(SentinelFormerEmployee))
			gomega.Expect(redacted.RequesterEmail).To(gomega.Equal(PlaceholderEmail(target.ID)))
			gomega.Expect(redacted.Title).To(gomega.Equal("Monitor flickers"))

			wasAssigned, _ := ticketRepo.GetByID(ctx, assigned.ID)
			gomega.Expect(wasAssigned.AssignedTechnician).To(gomega.BeNil())
			gomega.Expect(wasAssigned.Status).To(gomega.Equal(domain.TicketStatusNew))

			stillOpen, _ := ticketRepo.GetByID(ctx, inProgress.ID)
			gomega.Expect(stillOpen.AssignedTechnician).To(gomega.BeNil())
			gomega.Expect(stillOpen.Status).To(gomega.Equal(domain.TicketStatusInProgress))

			_, err = userRepo.GetByID(ctx, target.ID)
			gomega.Expect(err).To(gomega.MatchError(pgx.ErrNoRows))
		})

		ginkgo.It("leaves other requesters' identities alone", func() {
			_, err := svc.Anonymize(ctx, admin, target.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			untouched, _ := ticketRepo.GetByID(ctx, assigned.ID)
			gomega.Expect(untouched.RequesterName).To(gomega.Equal("Alice Nguyen"))
			gomega.Expect(untouched.RequesterEmail).To(gomega.Equal("alice@corp.example"))
		})

		ginkgo.It("publishes an anonymization event with the cascade counts", func() {
			_, err := svc.Anonymize(ctx, admin, target.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(published).To(gomega.HaveLen(1))
			payload, ok := published[0].Payload.(events.UserAnonymizedPayload)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(payload.UserID).To(gomega.Equal(target.ID))
			gomega.Expect(payload.RedactedTickets).To(gomega.Equal(int64(1)))
			gomega.Expect(payload.UnassignedTickets).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("skips redaction for a target without an email", func() {
			bare := userRepo.add(&domain.User{Name: ptr("No Email Yet")})

			result, err := svc.Anonymize(ctx, admin, bare.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.RedactedTickets).To(gomega.BeZero())
			_, err = userRepo.GetByID(ctx, bare.ID)
			gomega.Expect(err).To(gomega.MatchError(pgx.ErrNoRows))
		})

		ginkgo.It("refuses to anonymize the acting account", func() {
			_, err := svc.Anonymize(ctx, admin, admin.ID)

			gomega.Expect(apperrors.IsCode(err, "VALIDATION_FAILED")).To(gomega.BeTrue())
			_, err = userRepo.GetByID(ctx, admin.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("reports a missing target", func() {
			_, err := svc.Anonymize(ctx, admin, "44444444-4444-4444-4444-444444444444")

			gomega.Expect(apperrors.IsCode(err, "NOT_FOUND")).To(gomega.BeTrue())
		})

		ginkgo.It("denies technicians", func() {
			_, err := svc.Anonymize(ctx, target, admin.ID)

			gomega.Expect(apperrors.IsCode(err, "UNAUTHORIZED")).To(gomega.BeTrue())
		})
	})
})

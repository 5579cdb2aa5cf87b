package service

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var _ = ginkgo.Describe("UserService", func() {
	var (
		ctx      context.Context
		clock    *fakeClock
		userRepo *fakeUserRepository
		svc      *UserService
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		clock = newFakeClock()
		userRepo = newFakeUserRepository(clock)
		svc = NewUserService(userRepo)
	})

	ginkgo.Describe("ResolveOrBootstrap", func() {
		ginkgo.It("returns the stored record when one exists", func() {
			stored := seedUser(userRepo, "alice@corp.example", "Alice Nguyen", domain.RoleEndUser)

			user, err := svc.ResolveOrBootstrap(ctx, stored.ID)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(user.ID).To(gomega.Equal(stored.ID))
			gomega.Expect(user.Name).To(gomega.HaveValue(gomega.Equal("Alice Nguyen")))
		})

		ginkgo.It("returns a bare placeholder with no role for an unknown identity", func() {
			user, err := svc.ResolveOrBootstrap(ctx, "fresh-identity")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(user.ID).To(gomega.Equal("fresh-identity"))
			gomega.Expect(user.Role).To(gomega.BeNil())
			gomega.Expect(user.Provisioned()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("CompleteProfile", func() {
		input := ProfileInput{
			Email: "dana@corp.example",
			Name:  "Dana Whitfield",
		}

		ginkgo.It("creates a profile with the end-user role", func() {
			id, err := svc.CompleteProfile(ctx, "identity-dana", input)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			stored, err := userRepo.GetByID(ctx, id)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(stored.Email).To(gomega.HaveValue(gomega.Equal("dana@corp.example")))
			gomega.Expect(stored.Name).To(gomega.HaveValue(gomega.Equal("Dana Whitfield")))
			gomega.Expect(stored.Role).To(gomega.HaveValue(gomega.Equal(domain.RoleEndUser)))
		})

		ginkgo.It("never honors a caller-supplied role", func() {
			escalating := input
			escalating.Role = ptr(domain.RoleAdmin)

			id, err := svc.CompleteProfile(ctx, "identity-dana", escalating)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			stored, _ := userRepo.GetByID(ctx, id)
			gomega.Expect(stored.Role).To(gomega.HaveValue(gomega.Equal(domain.RoleEndUser)))
		})

		ginkgo.It("is idempotent for the same email", func() {
			first, err := svc.CompleteProfile(ctx, "identity-dana", input)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			second, err := svc.CompleteProfile(ctx, "identity-dana", input)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(second).To(gomega.Equal(first))
			all, _ := userRepo.List(ctx)
			gomega.Expect(all).To(gomega.HaveLen(1))
		})

		ginkgo.It("fills in the caller's own bare record instead of duplicating it", func() {
			bare := userRepo.add(&domain.User{ID: "identity-dana", Email: ptr("dana@corp.example")})

			id, err := svc.CompleteProfile(ctx, "identity-dana", input)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(id).To(gomega.Equal(bare.ID))
			stored, _ := userRepo.GetByID(ctx, id)
			gomega.Expect(stored.Name).To(gomega.HaveValue(gomega.Equal("Dana Whitfield")))
			gomega.Expect(stored.Role).To(gomega.HaveValue(gomega.Equal(domain.RoleEndUser)))
		})

		ginkgo.It("returns the owner's id untouched when another user holds the email", func() {
			owner := seedUser(userRepo, "dana@corp.example", "The Real Dana", domain.RoleTechnician)

			id, err := svc.CompleteProfile(ctx, "identity-impostor", input)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(id).To(gomega.Equal(owner.ID))
			stored, _ := userRepo.GetByID(ctx, owner.ID)
			gomega.Expect(stored.Name).To(gomega.HaveValue(gomega.Equal("The Real Dana")))
			gomega.Expect(stored.Role).To(gomega.HaveValue(gomega.Equal(domain.RoleTechnician)))
		})

		ginkgo.It("requires an email", func() {
			bad := input
			bad.Email = "  "

			_, err := svc.CompleteProfile(ctx, "identity-dana", bad)

			gomega.Expect(apperrors.IsCode(err, "VALIDATION_FAILED")).To(gomega.BeTrue())
		})

		ginkgo.It("requires a name", func() {
			bad := input
			bad.Name = ""

			_, err := svc.CompleteProfile(ctx, "identity-dana", bad)

			gomega.Expect(apperrors.IsCode(err, "VALIDATION_FAILED")).To(gomega.BeTrue())
		})

		ginkgo.It("requires an authenticated identity", func() {
			_, err := svc.CompleteProfile(ctx, "", input)

			gomega.Expect(apperrors.IsCode(err, "UNAUTHENTICATED")).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ListTechnicians", func() {
		ginkgo.It("returns technicians and admins but not end-users", func() {
			seedUser(userRepo, "alice@corp.example", "Alice Nguyen", domain.RoleEndUser)
			tech := seedUser(userRepo, "priya@corp.example", "Priya Raman", domain.RoleTechnician)
			admin := seedUser(userRepo, "omar@corp.example", "Omar Haddad", domain.RoleAdmin)

			techs, err := svc.ListTechnicians(ctx, admin)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(techs).To(gomega.HaveLen(2))
			ids := []string{techs[0].ID, techs[1].ID}
			gomega.Expect(ids).To(gomega.ConsistOf(tech.ID, admin.ID))
		})

		ginkgo.It("denies end-users", func() {
			endUser := seedUser(userRepo, "alice@corp.example", "Alice Nguyen", domain.RoleEndUser)

			_, err := svc.ListTechnicians(ctx, endUser)

			gomega.Expect(apperrors.IsCode(err, "UNAUTHORIZED")).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ListAll", func() {
		ginkgo.It("is admin only", func() {
			tech := seedUser(userRepo, "priya@corp.example", "Priya Raman", domain.RoleTechnician)
			admin := seedUser(userRepo, "omar@corp.example", "Omar Haddad", domain.RoleAdmin)

			_, err := svc.ListAll(ctx, tech)
			gomega.Expect(apperrors.IsCode(err, "UNAUTHORIZED")).To(gomega.BeTrue())

			users, err := svc.ListAll(ctx, admin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(users).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("SetRole", func() {
		var admin, target *domain.User

		ginkgo.BeforeEach(func() {
			admin = seedUser(userRepo, "omar@corp.example", "Omar Haddad", domain.RoleAdmin)
			target = seedUser(userRepo, "alice@corp.example", "Alice Nguyen", domain.RoleEndUser)
		})

		ginkgo.It("patches only the role field", func() {
			id, err := svc.SetRole(ctx, admin, target.ID, domain.RoleTechnician)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(id).To(gomega.Equal(target.ID))
			stored, _ := userRepo.GetByID(ctx, target.ID)
			gomega.Expect(stored.Role).To(gomega.HaveValue(gomega.Equal(domain.RoleTechnician)))
			gomega.Expect(stored.Name).To(gomega.HaveValue(gomega.Equal("Alice Nguyen")))
			gomega.Expect(stored.Email).To(gomega.HaveValue(gomega.Equal("alice@corp.example")))
		})

		ginkgo.It("rejects an unknown role", func() {
			_, err := svc.SetRole(ctx, admin, target.ID, domain.Role("superuser"))

			gomega.Expect(apperrors.IsCode(err, "VALIDATION_FAILED")).To(gomega.BeTrue())
		})

		ginkgo.It("reports a missing target", func() {
			_, err := svc.SetRole(ctx, admin, "33333333-3333-3333-3333-333333333333", domain.RoleTechnician)

			gomega.Expect(apperrors.IsCode(err, "NOT_FOUND")).To(gomega.BeTrue())
		})

		ginkgo.It("denies technicians", func() {
			tech := seedUser(userRepo, "priya@corp.example", "Priya Raman", domain.RoleTechnician)

			_, err := svc.SetRole(ctx, tech, target.ID, domain.RoleAdmin)

			gomega.Expect(apperrors.IsCode(err, "UNAUTHORIZED")).To(gomega.BeTrue())
		})
	})
})

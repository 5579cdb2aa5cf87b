package service

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx      context.Context
		userRepo *fakeUserRepository
		svc      *AuthService
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		userRepo = newFakeUserRepository(newFakeClock())
		svc = NewAuthService(config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		}, userRepo)
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("creates a bare identity and signs the caller in", func() {
			session, err := svc.Register(ctx, "dana@corp.example", "hunter2!")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(session.Token).NotTo(gomega.BeEmpty())
			gomega.Expect(session.UserID).NotTo(gomega.BeEmpty())

			stored, err := userRepo.GetByID(ctx, session.UserID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(stored.Email).To(gomega.HaveValue(gomega.Equal("dana@corp.example")))
			gomega.Expect(stored.Name).To(gomega.BeNil())
			gomega.Expect(stored.Role).To(gomega.BeNil())
			gomega.Expect(stored.PasswordHash).NotTo(gomega.Equal("hunter2!"))
		})

		ginkgo.It("issues a token the manager can parse back to the same user", func() {
			session, err := svc.Register(ctx, "dana@corp.example", "hunter2!")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			claims, err := svc.TokenManager().ParseToken(session.Token)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(session.UserID))
		})

		ginkgo.It("rejects a duplicate email", func() {
			_, err := svc.Register(ctx, "dana@corp.example", "hunter2!")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = svc.Register(ctx, "dana@corp.example", "another-pass")

			gomega.Expect(apperrors.IsCode(err, "CONFLICT")).To(gomega.BeTrue())
		})

		ginkgo.It("rejects missing credentials", func() {
			_, err := svc.Register(ctx, "  ", "hunter2!")
			gomega.Expect(apperrors.IsCode(err, "VALIDATION_FAILED")).To(gomega.BeTrue())

			_, err = svc.Register(ctx, "dana@corp.example", "")
			gomega.Expect(apperrors.IsCode(err, "VALIDATION_FAILED")).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Login", func() {
		ginkgo.BeforeEach(func() {
			_, err := svc.Register(ctx, "dana@corp.example", "hunter2!")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("issues a session for valid credentials", func() {
			session, err := svc.Login(ctx, "dana@corp.example", "hunter2!")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(session.Token).NotTo(gomega.BeEmpty())
		})

		ginkgo.It("rejects a wrong password without leaking which part failed", func() {
			_, err := svc.Login(ctx, "dana@corp.example", "wrong")

			gomega.Expect(apperrors.IsCode(err, "UNAUTHENTICATED")).To(gomega.BeTrue())
		})

		ginkgo.It("rejects an unknown email the same way", func() {
			_, err := svc.Login(ctx, "nobody@corp.example", "hunter2!")

			gomega.Expect(apperrors.IsCode(err, "UNAUTHENTICATED")).To(gomega.BeTrue())
		})
	})
})

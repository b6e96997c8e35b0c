package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/payraise-portal/internal/auth"
	authPostgres "github.com/frahmantamala/payraise-portal/internal/auth/postgres"
	userDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Credential Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo *authPostgres.Repository
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		repo = authPostgres.NewRepository(db, sqlx.NewDb(sqlDB, "sqlite3"))
	})

	It("should create a user and read it back by username", func() {
		emp := int64(4)
		u := &userDatamodel.User{
			Username:      "manager",
			PasswordHash:  "$2a$04$hash",
			SecurityLevel: 2,
			FullName:      "Bob Manager",
			EmployeeID:    &emp,
		}
		Expect(repo.Create(ctx, u)).To(Succeed())
		Expect(u.ID).To(BeNumerically(">", 0))

		found, err := repo.GetByUsername(ctx, "manager")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.ID).To(Equal(u.ID))
		Expect(found.SecurityLevel).To(Equal(2))
		Expect(found.PasswordHash).To(Equal("$2a$04$hash"))
		Expect(found.EmployeeID).NotTo(BeNil())
		Expect(*found.EmployeeID).To(Equal(int64(4)))
	})

	It("should leave employee_id nil when the user has no employee", func() {
		Expect(repo.Create(ctx, &userDatamodel.User{Username: "ops", PasswordHash: "h", SecurityLevel: 3})).To(Succeed())

		found, err := repo.GetByUsername(ctx, "ops")
		Expect(err).NotTo(HaveOccurred())
		Expect(found.EmployeeID).To(BeNil())
	})

	It("should return ErrUserNotFound for unknown and differently cased usernames", func() {
		Expect(repo.Create(ctx, &userDatamodel.User{Username: "staff", PasswordHash: "h", SecurityLevel: 3})).To(Succeed())

		_, err := repo.GetByUsername(ctx, "nobody")
		Expect(err).To(MatchError(auth.ErrUserNotFound))

		_, err = repo.GetByUsername(ctx, "STAFF")
		Expect(err).To(MatchError(auth.ErrUserNotFound))
	})

	It("should reject duplicate usernames", func() {
		Expect(repo.Create(ctx, &userDatamodel.User{Username: "staff", PasswordHash: "h", SecurityLevel: 3})).To(Succeed())
		Expect(repo.Create(ctx, &userDatamodel.User{Username: "staff", PasswordHash: "h", SecurityLevel: 3})).NotTo(Succeed())
	})
})

package database_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/database"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDatabase(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Database Suite")
}

var _ = Describe("Database", func() {
	var (
		ctx    context.Context
		logger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	It("rejects an unsupported driver", func() {
		_, err := database.Open(ctx, internal.DatabaseConfig{Driver: "oracle", Source: "x"}, logger)
		Expect(err).To(MatchError(ContainSubstring("unsupported")))
	})

	It("migrates sqlite up and back down", func() {
		db, err := database.Open(ctx, internal.DatabaseConfig{Driver: internal.DriverSQLite, Source: ":memory:"}, logger)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		Expect(db.Migrate(ctx, false)).To(Succeed())

		var tables []string
		Expect(db.SQLX.SelectContext(ctx, &tables,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('employees', 'users', 'pay_raises') ORDER BY name`,
		)).To(Succeed())
		Expect(tables).To(Equal([]string{"employees", "pay_raises", "users"}))

		// a second run is a no-op
		Expect(db.Migrate(ctx, false)).To(Succeed())

		Expect(db.Migrate(ctx, true)).To(Succeed())
		tables = nil
		Expect(db.SQLX.SelectContext(ctx, &tables,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'pay_raises'`,
		)).To(Succeed())
		Expect(tables).To(BeEmpty())
	})

	It("enforces the security level range", func() {
		db, err := database.Open(ctx, internal.DatabaseConfig{Driver: internal.DriverSQLite, Source: ":memory:"}, logger)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)
		Expect(db.Migrate(ctx, false)).To(Succeed())

		_, err = db.SQLX.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, security_level) VALUES ('x', 'h', 4)`)
		Expect(err).To(HaveOccurred())
	})
})

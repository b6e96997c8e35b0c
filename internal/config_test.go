package internal_test

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/payraise-portal/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
)

func defaultConfig() *internal.Config {
	v := viper.New()
	internal.SetDefaults(v)
	var cfg internal.Config
	Expect(v.Unmarshal(&cfg)).To(Succeed())
	return &cfg
}

var _ = Describe("Config", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	It("produces a valid development config from defaults alone", func() {
		cfg := defaultConfig()
		Expect(cfg.Database.Driver).To(Equal(internal.DriverSQLite))
		Expect(cfg.Session.TTL).To(Equal(8 * time.Hour))
		Expect(cfg.Database.QueryTimeout).To(Equal(internal.DefaultQueryTimeout))

		Expect(cfg.ApplyDevDefaults(logger)).To(Succeed())
		Expect(cfg.Security.SessionSecret).To(HaveLen(64))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("keeps a configured session secret", func() {
		cfg := defaultConfig()
		cfg.Security.SessionSecret = strings.Repeat("s", 40)
		Expect(cfg.ApplyDevDefaults(logger)).To(Succeed())
		Expect(cfg.Security.SessionSecret).To(Equal(strings.Repeat("s", 40)))
	})

	It("requires a session secret in production", func() {
		cfg := defaultConfig()
		cfg.App.Env = "production"
		Expect(cfg.ApplyDevDefaults(logger)).To(Succeed())
		Expect(cfg.Security.SessionSecret).To(BeEmpty())

		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("session_secret")))
	})

	It("reports every broken section at once", func() {
		cfg := defaultConfig()
		cfg.Server.Port = 0
		cfg.Database.Driver = "oracle"
		cfg.Session.Store = "memcached"

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("server config"))
		Expect(err.Error()).To(ContainSubstring("database config"))
		Expect(err.Error()).To(ContainSubstring("session config"))
	})

	It("requires a redis address for the redis session store", func() {
		cfg := defaultConfig()
		Expect(cfg.ApplyDevDefaults(logger)).To(Succeed())
		cfg.Session.Store = internal.SessionStoreRedis
		cfg.Redis.Addr = ""
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("redis")))
	})
})

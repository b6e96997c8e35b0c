package employee_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/payraise-portal/internal/access"
	employeeDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/payraise-portal/internal/employee"
	employeePostgres "github.com/frahmantamala/payraise-portal/internal/employee/postgres"
	"github.com/frahmantamala/payraise-portal/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Employee Handler Integration", func() {
	var handler *employee.Handler

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&employeeDatamodel.Employee{})).To(Succeed())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		service := employee.NewService(employeePostgres.NewEmployeeRepository(db), access.NewPolicy(),
			slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler = employee.NewHandler(service)
	})

	request := func(method, body string, level access.Level) *http.Request {
		req := httptest.NewRequest(method, "/employees", strings.NewReader(body))
		return req.WithContext(session.NewContext(req.Context(), caller(level)))
	}

	It("should handle POST then GET /employees", func() {
		w := httptest.NewRecorder()
		handler.CreateEmployee(w, request(http.MethodPost, `{"name":"Zed","department":"Ops"}`, access.LevelAdmin))
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = httptest.NewRecorder()
		handler.CreateEmployee(w, request(http.MethodPost, `{"name":"Amy","department":"Ops","security_level":2}`, access.LevelAdmin))
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = httptest.NewRecorder()
		handler.ListEmployees(w, request(http.MethodGet, "", access.LevelManager))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response struct {
			Employees []employee.Employee `json:"employees"`
			Count     int                 `json:"count"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Count).To(Equal(2))
		Expect(response.Employees[0].Name).To(Equal("Amy"))
		Expect(response.Employees[1].SecurityLevel).To(Equal(access.LevelStaff))
	})

	It("should reject a malformed body", func() {
		w := httptest.NewRecorder()
		handler.CreateEmployee(w, request(http.MethodPost, `{"name":`, access.LevelAdmin))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer a denied caller with 404", func() {
		w := httptest.NewRecorder()
		handler.ListEmployees(w, request(http.MethodGet, "", access.LevelStaff))
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(MatchJSON(`{"code":404,"message":"page not found"}`))
	})

	It("should redirect an anonymous caller", func() {
		req := httptest.NewRequest(http.MethodGet, "/employees", nil)
		w := httptest.NewRecorder()
		handler.ListEmployees(w, req)
		Expect(w.Code).To(Equal(http.StatusSeeOther))
	})
})

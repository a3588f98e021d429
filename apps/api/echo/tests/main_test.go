package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/jbmukiza/mahudhurio/apps/api/echo"
	"github.com/jbmukiza/mahudhurio/core"
	"github.com/jbmukiza/mahudhurio/core/access"
	"github.com/jbmukiza/mahudhurio/core/attendance"
	"github.com/jbmukiza/mahudhurio/core/directory"
	"github.com/jbmukiza/mahudhurio/storage/database/inmem"
	"github.com/jbmukiza/mahudhurio/tests"
)

var (
	app     Server
	gateway *attendance.Gateway

	admin    = access.Identity{ID: "adm1", Role: access.RoleSuperAdmin}
	teacher1 = access.Identity{ID: "t1", Role: access.RoleTeacher}
	teacher2 = access.Identity{ID: "t2", Role: access.RoleTeacher}
	teacher3 = access.Identity{ID: "t3", Role: access.RoleTeacher}
	student1 = access.Identity{ID: "s1", Role: access.RoleStudent}
	student4 = access.Identity{ID: "s4", Role: access.RoleStudent}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up directory & ledger on in-memory repos; each test works against its
	// own class so state never leaks between them
	dirRepo := inmemdb.NewDirectoryRepository()
	testutil.SeedClass(dirRepo, testutil.ClassSeed{
		GradeID:   "g1",
		ClassID:   "c1",
		TeacherID: "t1",
		Students: []directory.Student{
			{ID: "s1", Name: "Amani"},
			{ID: "s2", Name: "Baraka"},
			{ID: "s3", Name: "Chiku"},
		},
	})
	testutil.SeedClass(dirRepo, testutil.ClassSeed{
		GradeID:   "g1",
		ClassID:   "c2",
		TeacherID: "t2",
		Students:  []directory.Student{{ID: "s4", Name: "Dalila"}},
	})
	testutil.SeedClass(dirRepo, testutil.ClassSeed{
		GradeID:   "g2",
		ClassID:   "c3",
		TeacherID: "t3",
		Students:  []directory.Student{{ID: "s5", Name: "Elimu"}},
	})

	dirSvc := directory.NewService(dirRepo)
	gateway = attendance.NewGateway(attendance.GatewayOptions{
		Ledger:    attendance.NewService(inmemdb.NewAttendanceRepository(), dirSvc),
		Scope:     access.NewScope(dirSvc),
		Directory: dirSvc,
	})

	// set up server
	app = NewServer(&Options{
		DisableReqLogs: true,
		Gateway:        gateway,
	})

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, ident access.Identity) string {
	t.Helper()
	claims := GetIdentityClaims(ident, "Tester "+ident.ID)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	// lists may legitimately come back in a different order
	l1, ok1 := j1.([]interface{})
	l2, ok2 := j2.([]interface{})
	if ok1 && ok2 {
		return assert.ElementsMatch(t, l1, l2), nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

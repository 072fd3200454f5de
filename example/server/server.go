package main

import (
	"flag"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
	"github.com/authgate/authgate/generates"
	"github.com/authgate/authgate/manage"
	"github.com/authgate/authgate/migrate"
	"github.com/authgate/authgate/models"
	"github.com/authgate/authgate/seed"
	"github.com/authgate/authgate/server"
	"github.com/authgate/authgate/store"
	"github.com/authgate/authgate/utils/totp"
)

var (
	dumpvar   bool
	idvar     string
	secretvar string
	domainvar string
)

func init() {
	flag.BoolVar(&dumpvar, "d", false, "Dump requests and responses")
	flag.StringVar(&idvar, "i", "222222", "The client id being passed in")
	flag.StringVar(&secretvar, "s", "22222222", "The client secret being passed in")
	flag.StringVar(&domainvar, "r", "http://localhost:9094", "The domain of the redirect url")
}

func main() {
	flag.Parse()
	if dumpvar {
		log.Println("Dumping requests")
	}

	cfg := server.GetAppConfig()

	// Optionally run DB migrations before the server starts.
	// Configure via environment variables (see migrate.RunFromEnv docs):
	// MIGRATE_ON_START=1 MIGRATE_DRIVER=sqlite MIGRATE_DSN=./authgate.db
	if err := migrate.RunFromEnv(); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	if err := seed.RunFromEnv(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	manager := manage.NewDefaultManager()
	manager.SetConfig(grantConfig(cfg))

	// pending authorizations and codes: buntdb, file-backed if configured
	if cfg.Database.GrantPath != "" {
		manager.MustAuthorizationStorage(store.NewFileAuthorizationStore(cfg.Database.GrantPath))
	} else {
		manager.MustAuthorizationStorage(store.NewMemoryAuthorizationStore())
	}

	jwtKey := cfg.JWTKey
	if jwtKey == "" {
		jwtKey = "00000000"
	}
	accessGen := generates.NewJWTAccessGenerate("", []byte(jwtKey), jwt.SigningMethodHS512)
	manager.MapAccessGenerate(accessGen)

	clients, users := buildStores(cfg)
	manager.MapClientStorage(clients)
	manager.MapUserStorage(users)

	srvCfg := server.NewConfig()
	srvCfg.Endpoints.FormTargetURL = "/oauth/authorize"
	srvCfg.Endpoints.StepUpURL = cfg.Endpoints.StepUp
	if srvCfg.Endpoints.StepUpURL == "" {
		srvCfg.Endpoints.StepUpURL = "/stepup"
	}
	if cfg.Endpoints.FormTarget != "" {
		srvCfg.Endpoints.FormTargetURL = cfg.Endpoints.FormTarget
	}

	srv := server.NewServer(srvCfg, manager)
	srv.MapClientStorage(clients)
	srv.MapUserStorage(users)
	srv.SetTokenVerifier(accessGen)

	srv.SetInternalErrorHandler(func(err error) (re *errors.Response) {
		log.Println("Internal Error:", err.Error())
		return
	})
	srv.SetResponseErrorHandler(func(re *errors.Response) {
		log.Println("Response Error:", re.Error.Error())
	})

	engine := server.NewGinEngine(srv)
	engine.GET("/stepup", func(c *gin.Context) { stepUpPageHandler(c.Writer, c.Request) })

	log.Printf("Server is running at %s.", cfg.Addr)
	log.Printf("Authorization endpoint: http://localhost%s/oauth/authorize", cfg.Addr)
	log.Printf("Token endpoint: http://localhost%s/oauth/token", cfg.Addr)
	log.Fatal(engine.Run(cfg.Addr))
}

func grantConfig(cfg *server.AppConfig) *manage.Config {
	mc := &manage.Config{
		AuthorizationExp: 10 * time.Minute,
		CodeExp:          5 * time.Minute,
		AccessTokenExp:   2 * time.Hour,
	}
	if d, err := time.ParseDuration(cfg.Grants.AuthorizationTTL); err == nil && d > 0 {
		mc.AuthorizationExp = d
	}
	if d, err := time.ParseDuration(cfg.Grants.CodeTTL); err == nil && d > 0 {
		mc.CodeExp = d
	}
	if d, err := time.ParseDuration(cfg.Grants.AccessTokenTTL); err == nil && d > 0 {
		mc.AccessTokenExp = d
	}
	return mc
}

// buildStores returns DB-backed stores when a DSN is configured, and
// seeded in-memory stores otherwise.
func buildStores(cfg *server.AppConfig) (authgate.ClientStore, authgate.UserStore) {
	if dsn := cfg.DSN(); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		log.Println("Using database-backed client and user stores")
		return store.NewDBClientStore(db), store.NewDBUserStore(db)
	}

	clients := store.NewClientStore()
	clients.Set(idvar, &models.Client{
		ID:     idvar,
		Secret: secretvar,
		Name:   "Example Client",
		Domain: domainvar,
		Scope:  authgate.Scope{"read", "write"},
	})
	log.Printf("Registered OAuth2 client: id=%s redirect_domain=%s", idvar, domainvar)

	users := store.NewUserStore()
	hash, _ := bcrypt.GenerateFromPassword([]byte("test"), bcrypt.DefaultCost)
	users.Set(&models.User{
		ID:           "test",
		Username:     "test",
		Name:         "Test User",
		PasswordHash: string(hash),
	})

	// second user with TOTP enrolled to exercise the step-up branch
	secret, err := totp.GenerateSecret("secure", totp.DefaultConfig())
	if err != nil {
		log.Fatalf("generate totp secret: %v", err)
	}
	users.Set(&models.User{
		ID:           "secure",
		Username:     "secure",
		Name:         "Secure User",
		PasswordHash: string(hash),
	})
	users.Enroll("secure", &models.SecondFactor{OwnerID: "secure", Type: "totp", Secret: secret})
	log.Printf("TOTP enrollment for user %q: %s", "secure", totp.GenerateQRCodeURL(secret, "secure", totp.DefaultConfig()))

	return clients, users
}

var stepUpPage = template.Must(template.New("stepup").Parse(`<!DOCTYPE html>
<html>
<head><title>Verification required</title></head>
<body>
  <h1>Enter your authenticator code</h1>
  <form method="post" action="/oauth/stepup">
    <input type="hidden" name="authorization_id" value="{{.AuthorizationID}}">
    {{if .State}}<input type="hidden" name="state" value="{{.State}}">{{end}}
    <input type="text" name="passcode" autocomplete="one-time-code" autofocus>
    <button type="submit">Verify</button>
  </form>
</body>
</html>
`))

// stepUpPageHandler serves the challenge page the authorization endpoint
// redirects to when the owner has a second factor enrolled.
func stepUpPageHandler(w http.ResponseWriter, r *http.Request) {
	if dumpvar {
		_ = dumpRequest(os.Stdout, "stepup", r)
	}
	if r.Form == nil {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	id := r.Form.Get("authorization_id")
	if id == "" {
		http.Error(w, "missing authorization_id", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	data := struct {
		AuthorizationID string
		State           string
	}{AuthorizationID: id, State: r.Form.Get("state")}
	if err := stepUpPage.Execute(w, data); err != nil {
		fmt.Fprintln(os.Stderr, "render stepup page:", err)
	}
}

func dumpRequest(writer io.Writer, header string, r *http.Request) error {
	data, err := httputil.DumpRequest(r, true)
	if err != nil {
		return err
	}
	writer.Write([]byte("\n" + header + ": \n"))
	writer.Write(data)
	return nil
}

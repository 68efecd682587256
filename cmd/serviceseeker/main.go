package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/serviceseeker/serviceseeker/pkg/authlink"
	authlinkapi "github.com/serviceseeker/serviceseeker/pkg/authlink/api"
	"github.com/serviceseeker/serviceseeker/pkg/company"
	companyapi "github.com/serviceseeker/serviceseeker/pkg/company/api"
	"github.com/serviceseeker/serviceseeker/pkg/credential"
	"github.com/serviceseeker/serviceseeker/pkg/externalprovider"
	"github.com/serviceseeker/serviceseeker/pkg/location"
	"github.com/serviceseeker/serviceseeker/pkg/notification"
	"github.com/serviceseeker/serviceseeker/pkg/ratelimit"
	"github.com/serviceseeker/serviceseeker/pkg/signin"
	signinapi "github.com/serviceseeker/serviceseeker/pkg/signin/api"
	"github.com/serviceseeker/serviceseeker/pkg/signup"
	"github.com/serviceseeker/serviceseeker/pkg/token"
	"github.com/serviceseeker/serviceseeker/pkg/user"
)

type DbConfig struct {
	Host     string `env:"SEEKER_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"SEEKER_PG_PORT" env-default:"5432"`
	Database string `env:"SEEKER_PG_DATABASE" env-default:"serviceseeker_db"`
	User     string `env:"SEEKER_PG_USER" env-default:"seeker"`
	Password string `env:"SEEKER_PG_PASSWORD" env-default:"pwd"`
}

func (d DbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type JwtConfig struct {
	JwtSecret      string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	JwtIssuer      string `env:"JWT_ISSUER" env-default:"serviceseeker"`
	JwtAudience    string `env:"JWT_AUDIENCE" env-default:"serviceseeker"`
	CookieHttpOnly bool   `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure   bool   `env:"COOKIE_SECURE" env-default:"false"`
}

type PasswordPolicyConfig struct {
	MinLength        int  `env:"PASSWORD_MIN_LENGTH" env-default:"8"`
	RequireUppercase bool `env:"PASSWORD_REQUIRE_UPPERCASE" env-default:"true"`
	RequireLowercase bool `env:"PASSWORD_REQUIRE_LOWERCASE" env-default:"true"`
	RequireDigit     bool `env:"PASSWORD_REQUIRE_DIGIT" env-default:"true"`
	RequireSpecial   bool `env:"PASSWORD_REQUIRE_SPECIAL" env-default:"true"`
}

type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     int    `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" env-default:"no-reply@serviceseeker.example"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

type OAuthConfig struct {
	GoogleClientID        string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret    string `env:"GOOGLE_CLIENT_SECRET"`
	LinkedInClientID      string `env:"LINKEDIN_CLIENT_ID"`
	LinkedInClientSecret  string `env:"LINKEDIN_CLIENT_SECRET"`
	MicrosoftClientID     string `env:"MICROSOFT_CLIENT_ID"`
	MicrosoftClientSecret string `env:"MICROSOFT_CLIENT_SECRET"`
	RedirectURI           string `env:"OAUTH_REDIRECT_URI" env-default:"http://localhost:4000/auth/external/callback"`
}

type Config struct {
	DbConfig             DbConfig
	AppConfig            app.AppConfig
	JwtConfig            JwtConfig
	PasswordPolicyConfig PasswordPolicyConfig
	EmailConfig          EmailConfig
	OAuthConfig          OAuthConfig
	BaseURL              string `env:"BASE_URL" env-default:"http://localhost:4000"`
}

func main() {

	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := config.DbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	// Reference data is seeded before the server accepts traffic.
	locationRepo := location.NewPostgresReferenceDataRepository(pool)
	seeder := location.NewSeeder(locationRepo, locationRepo)
	if err := seeder.Seed(context.Background()); err != nil {
		slog.Error("Failed seeding reference data", "err", err)
		os.Exit(-1)
	}

	userRepo := user.NewPostgresUserRepository(pool)
	userService := user.NewUserService(userRepo)

	var policy credential.PasswordPolicy
	copier.Copy(&policy, &config.PasswordPolicyConfig)
	credentialRepo := credential.NewPostgresCredentialRepository(pool)
	credentialService := credential.NewCredentialService(credentialRepo,
		credential.WithPasswordPolicy(policy),
	)

	notificationManager, err := notification.NewNotificationManagerWithOptions(config.BaseURL,
		notification.WithSMTP(notification.SMTPConfig{
			Host:     config.EmailConfig.Host,
			Port:     config.EmailConfig.Port,
			Username: config.EmailConfig.Username,
			Password: config.EmailConfig.Password,
			From:     config.EmailConfig.From,
			TLS:      config.EmailConfig.TLS,
		}),
		notification.WithDefaultTemplates(),
	)
	if err != nil {
		slog.Error("Failed creating notification manager", "err", err)
		os.Exit(-1)
	}

	providerRepo := externalprovider.NewInMemoryExternalProviderRepository()
	if config.OAuthConfig.GoogleClientID != "" {
		providerRepo.RegisterProvider(externalprovider.GoogleProvider(config.OAuthConfig.GoogleClientID, config.OAuthConfig.GoogleClientSecret))
	}
	if config.OAuthConfig.LinkedInClientID != "" {
		providerRepo.RegisterProvider(externalprovider.LinkedInProvider(config.OAuthConfig.LinkedInClientID, config.OAuthConfig.LinkedInClientSecret))
	}
	if config.OAuthConfig.MicrosoftClientID != "" {
		providerRepo.RegisterProvider(externalprovider.MicrosoftProvider(config.OAuthConfig.MicrosoftClientID, config.OAuthConfig.MicrosoftClientSecret))
	}
	providerService := externalprovider.NewExternalProviderService(providerRepo, config.OAuthConfig.RedirectURI)

	confirmationService := authlink.NewConfirmationService(credentialService, userRepo)
	linkingService := authlink.NewLinkingService(credentialService, userRepo)
	trackingService := authlink.NewTrackingService(userRepo)

	tokenGenerator := token.NewJwtTokenGenerator(config.JwtConfig.JwtSecret, config.JwtConfig.JwtIssuer, config.JwtConfig.JwtAudience)
	jwtService := token.NewJwtService(tokenGenerator)
	cookieSetter := token.NewCookieSetter(config.JwtConfig.CookieHttpOnly, config.JwtConfig.CookieSecure)

	signinService := signin.NewSignInService(userService, credentialService, confirmationService, jwtService,
		signin.WithLoginTracking(trackingService),
	)
	signupService := signup.NewSignupService(userService, credentialService, userRepo,
		signup.WithNotificationManager(notificationManager),
	)

	loginLimiter := ratelimit.NewLoginLimiter(ratelimit.DefaultConfig())

	authHandle := signinapi.NewHandler(signinService, signupService, providerService, cookieSetter)
	server.R.Route("/auth", func(r chi.Router) {
		r.Use(loginLimiter.Handler)
		authHandle.RegisterRoutes(r)
	})

	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.JwtSecret), nil)

	companyRepo := company.NewPostgresCompanyRepository(pool)
	companyService := company.NewCompanyService(companyRepo)

	accountHandle := authlinkapi.NewHandler(linkingService, userService, credentialService, providerService)
	companyHandle := companyapi.NewHandler(companyService)
	server.R.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Route("/account", func(r chi.Router) {
			accountHandle.RegisterRoutes(r)
		})
		r.Route("/companies", func(r chi.Router) {
			companyHandle.RegisterRoutes(r)
		})
	})

	server.Run()
}

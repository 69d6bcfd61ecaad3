package http

import (
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/config"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/dynamo"
	jwtinfra "github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/jwt"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/smtp"
	"github.com/AthilaRavindu/TalentNest-dev-latest1-sub000/internal/infrastructure/sns"
)

// Deps carries everything the router needs to assemble services and handlers.
// SMSSender may be nil; change alerts then go out by email only.
type Deps struct {
	Config       *config.Config
	EmployeeRepo *dynamo.EmployeeRepo
	AdminRepo    *dynamo.AdminRepo
	OTPRepo      *dynamo.OTPRepo
	SessionRepo  *dynamo.SessionRepo
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}

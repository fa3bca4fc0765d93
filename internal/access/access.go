// Package access реализует каноническую таблицу закрытых разделов и проверку доступа к ним.
//
// Каждое правило связывает префикс пути с допустимыми ролями. Для запроса выбирается
// правило с самым длинным совпавшим префиксом; совпадение идёт по целым сегментам пути,
// поэтому /administrator не попадает под /admin. Пути без правила открыты.
package access

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/magabrotheeeer/barbershop-booking/internal/config"
	"github.com/magabrotheeeer/barbershop-booking/internal/lib/jwt"
	"github.com/magabrotheeeer/barbershop-booking/internal/models"
)

// Reason причина отказа в доступе.
type Reason string

const (
	// ReasonNone доступ разрешён.
	ReasonNone Reason = ""
	// ReasonNoSession нет токена или он недействителен.
	ReasonNoSession Reason = "no_session"
	// ReasonForbiddenRole роль не подходит под правило.
	ReasonForbiddenRole Reason = "forbidden_role"
)

// Rule правило доступа. Пустой Roles означает любую действительную сессию.
type Rule struct {
	Prefix string
	Roles  []models.Role
}

func (r Rule) allows(role models.Role) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// Decision результат проверки доступа.
type Decision struct {
	Allow  bool
	Reason Reason
	Rule   *Rule             // Сработавшее правило, nil для открытого пути
	Claims *jwt.CustomClaims // Разобранный токен, если он действителен
}

// TokenParser разбирает и проверяет токен сессии.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// Authorizer применяет таблицу правил к токену и пути запроса.
type Authorizer struct {
	rules  []Rule
	tokens TokenParser
}

// ErrBadPrefix правило с пустым или относительным префиксом.
var ErrBadPrefix = errors.New("access prefix must start with /")

// DefaultRules собирает таблицу из конфига: admin только ADMIN,
// barber для BARBER и ADMIN, client для любой действительной сессии.
func DefaultRules(cfg config.Access) []Rule {
	return []Rule{
		{Prefix: cfg.AdminPrefix, Roles: []models.Role{models.RoleAdmin}},
		{Prefix: cfg.BarberPrefix, Roles: []models.Role{models.RoleBarber, models.RoleAdmin}},
		{Prefix: cfg.ClientPrefix},
	}
}

// New создаёт Authorizer. Правила упорядочиваются от самого длинного префикса к короткому.
func New(tokens TokenParser, rules []Rule) (*Authorizer, error) {
	const op = "access.New"
	sorted := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !strings.HasPrefix(r.Prefix, "/") {
			return nil, fmt.Errorf("%s: %q: %w", op, r.Prefix, ErrBadPrefix)
		}
		r.Prefix = cleanPath(r.Prefix)
		sorted = append(sorted, r)
	}
	slices.SortStableFunc(sorted, func(a, b Rule) int {
		return len(b.Prefix) - len(a.Prefix)
	})
	return &Authorizer{rules: sorted, tokens: tokens}, nil
}

// Match возвращает правило с самым длинным префиксом, под который попадает requestPath.
func (a *Authorizer) Match(requestPath string) (*Rule, bool) {
	p := cleanPath(requestPath)
	for i := range a.rules {
		if underPrefix(p, a.rules[i].Prefix) {
			return &a.rules[i], true
		}
	}
	return nil, false
}

// Authorize решает, пропускать ли запрос с токеном token на путь requestPath.
// Отсутствие сессии на закрытом пути приравнивается к неподходящей роли: в обоих случаях отказ.
func (a *Authorizer) Authorize(token, requestPath string) Decision {
	var claims *jwt.CustomClaims
	if token != "" {
		if c, err := a.tokens.ParseToken(token); err == nil {
			claims = c
		}
	}

	rule, gated := a.Match(requestPath)
	if !gated {
		return Decision{Allow: true, Claims: claims}
	}
	if claims == nil {
		return Decision{Reason: ReasonNoSession, Rule: rule}
	}
	if !rule.allows(claims.Role) {
		return Decision{Reason: ReasonForbiddenRole, Rule: rule, Claims: claims}
	}
	return Decision{Allow: true, Rule: rule, Claims: claims}
}

func underPrefix(p, prefix string) bool {
	if prefix == "/" || p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

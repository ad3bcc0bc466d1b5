// Package access принимает решение о доступе к контенту по тарифу.
package access

import (
	"github.com/magabrotheeeer/remedies-backend/internal/models"
	"github.com/magabrotheeeer/remedies-backend/internal/plan"
)

// PlanResolver вычисляет действующий тариф пользователя.
type PlanResolver interface {
	EffectivePlan(user *models.User) plan.Tier
}

// Service — единственная точка принятия решения allow/deny для
// контента с ограничением по тарифу.
type Service struct {
	resolver PlanResolver
}

// New создает новый экземпляр Service.
func New(resolver PlanResolver) *Service {
	return &Service{resolver: resolver}
}

// CanAccess сообщает, хватает ли действующего тарифа пользователя для
// контента с меткой requiredPlanTag. Чистая функция без побочных
// эффектов, её можно звать на каждом чтении контента.
//
// Метка "all", пустая или нераспознанная означает открытый контент,
// доступ разрешается без обращения к данным пользователя. Гость
// (nil user) считается rookie, а не ошибкой.
func (s *Service) CanAccess(user *models.User, requiredPlanTag *string) bool {
	var raw string
	if requiredPlanTag != nil {
		raw = *requiredPlanTag
	}
	required, restricted := plan.Normalize(raw)
	if !restricted {
		return true
	}
	effective := s.resolver.EffectivePlan(user)
	return plan.Rank(effective) >= plan.Rank(required)
}

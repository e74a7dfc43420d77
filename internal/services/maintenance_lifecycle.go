package services

import (
	"fmt"

	"gearguard/pkg/constants"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

// allowedTransitions - единственные допустимые переходы статуса заявки.
// repaired и scrap финальные, из них переходов нет.
var allowedTransitions = map[string][]string{
	constants.StatusNew:        {constants.StatusInProgress, constants.StatusScrap},
	constants.StatusInProgress: {constants.StatusRepaired, constants.StatusScrap},
}

// CanTransition сообщает, разрешён ли переход from -> to.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to string) error {
	if CanTransition(from, to) {
		return nil
	}
	return apperrors.NewConflictError(fmt.Sprintf("Недопустимый переход статуса: %s -> %s", from, to))
}

func isAssignee(assignedTo *uint64, userID uint64) bool {
	return assignedTo != nil && *assignedTo == userID
}

// authorizeTransition проверяет, кто может перевести заявку в статус to.
// В работу и в "отремонтировано" переводит только исполнитель, списать может ещё менеджер.
func authorizeTransition(principal types.Principal, assignedTo *uint64, to string) error {
	switch to {
	case constants.StatusScrap:
		if principal.IsManager() || isAssignee(assignedTo, principal.UserID) {
			return nil
		}
		return apperrors.NewForbiddenError("Списать заявку может только исполнитель или менеджер")
	default:
		if isAssignee(assignedTo, principal.UserID) {
			return nil
		}
		return apperrors.NewForbiddenError("Менять статус заявки может только назначенный исполнитель")
	}
}

package validation

import (
	"regexp"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"gearguard/pkg/constants"
	"gearguard/pkg/utils"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// минимальный балл пароля по шкале utils.EvaluatePassword
const minPasswordScore = 2

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"custom_email":       isGoodEmailFormat,
		"password_strength":  isStrongPassword,
		"maintenance_type":   isMaintenanceType,
		"request_status":     isRequestStatus,
		"equipment_status":   isEquipmentStatus,
		"work_center_status": isWorkCenterStatus,
		"user_role":          isUserRole,
		"date_only":          isDateOnly,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// isGoodEmailFormat - проверка email
func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isStrongPassword(fl validator.FieldLevel) bool {
	return utils.EvaluatePassword(fl.Field().String()).Score >= minPasswordScore
}

func isMaintenanceType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == constants.MaintenanceCorrective || s == constants.MaintenancePreventive
}

func isRequestStatus(fl validator.FieldLevel) bool {
	return constants.IsKnownStatus(fl.Field().String())
}

func isEquipmentStatus(fl validator.FieldLevel) bool {
	return slices.Contains(constants.EquipmentStatuses, fl.Field().String())
}

func isWorkCenterStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == constants.WorkCenterStatusActive || s == constants.WorkCenterStatusInactive
}

func isUserRole(fl validator.FieldLevel) bool {
	return slices.Contains(constants.Roles, fl.Field().String())
}

// isDateOnly - календарная дата "2006-01-02"
func isDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(utils.DateLayout, fl.Field().String())
	return err == nil
}

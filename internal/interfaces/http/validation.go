package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody decodifica el JSON y valida las etiquetas validate.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.InvalidInput("cuerpo inválido")
	}
	return validateStruct(out)
}

// parseQuery decodifica la query string y la valida.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.InvalidInput("parámetros inválidos")
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InvalidInput(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return domain.InvalidInput(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "min":
		return fmt.Sprintf("%s debe ser al menos %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s no puede superar %s", field, fe.Param())
	case "datetime":
		return field + " debe tener formato YYYY-MM-DD"
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}

const dayLayout = "2006-01-02"

// dayBounds devuelve el primer y el último instante del día en loc.
func dayBounds(raw string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dayLayout, raw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, domain.InvalidInput("fecha inválida: " + raw)
	}
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

package rekuest

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/ident"
	"tolet.dev/backend/internal/util"
	"tolet.dev/backend/internal/util/i18n"
)

var Validate = util.NewValidator()

func init() {
	translators := map[string]ut.Translator{}
	for _, locale := range []string{"en", "bn"} {
		tr, _ := i18n.UT.GetTranslator(locale)
		if err := enTranslations.RegisterDefaultTranslations(Validate, tr); err != nil {
			log.Warn().Err(err).Str("locale", locale).Msg("could not register translation")
		}
		translators[locale] = tr
	}

	custom := map[string]string{
		"familytype": "{0} must be one of SMALL_FAMILY, BIG_FAMILY or BACHELOR",
		"role":       "{0} must be a valid account role",
		"location":   "{0} must look like \"District, Upazila\"",
	}

	for l, t := range translators {
		for tag, text := range custom {
			tag, text := tag, text
			err := Validate.RegisterTranslation(tag, t, func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			}, func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			})
			if err != nil {
				log.Warn().Err(err).Str("locale", l).Str("tag", tag).Msg("could not register translation for custom tag")
			}
		}
	}
}

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

// translate turns validator errors into ErrorResponses
func translate(utt ut.Translator, ve validator.ValidationErrors) []*ErrorResponse {
	trans := make([]*ErrorResponse, 0, len(ve))
	for _, fe := range ve {
		trans = append(trans, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Translate(utt),
		})
	}
	return trans
}

func validateVar(ctx *fiber.Ctx, s any, tag string) []*ErrorResponse {
	err := Validate.Var(s, tag)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			panic(err)
		}
		return translate(TranslatorFromCtx(ctx), errs)
	}
	return nil
}

func validateStruct(ctx *fiber.Ctx, s any) []*ErrorResponse {
	err := Validate.Struct(s)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			panic(err)
		}
		return translate(TranslatorFromCtx(ctx), errs)
	}
	return nil
}

// ValidBody will get the body from *fiber.Ctx using fiber#BodyParser(),
// and validate it using the validator singleton. If the validation passed it will write the unmarshalled body
// to dest and return a nil, otherwise it will return an error. Notice that dest shall
// always be a pointer.
func ValidBody(ctx *fiber.Ctx, dest any) error {
	if err := ctx.BodyParser(dest); err != nil {
		return apperr.ErrInvalidReq.Msg("invalid request: %s", err)
	}

	return ValidStruct(ctx, dest)
}

// ValidQuery is ValidBody for the query string.
func ValidQuery(ctx *fiber.Ctx, dest any) error {
	if err := ctx.QueryParser(dest); err != nil {
		return apperr.ErrInvalidReq.Msg("invalid query: %s", err)
	}

	return ValidStruct(ctx, dest)
}

func ValidStruct(ctx *fiber.Ctx, dest any) error {
	if err := validateStruct(ctx, dest); err != nil {
		return apperr.NewInvalidViolations(err)
	}

	return nil
}

func ValidVar(ctx *fiber.Ctx, field any, tag string) error {
	if err := validateVar(ctx, field, tag); err != nil {
		return apperr.NewInvalidViolations(err)
	}

	return nil
}

// ValidID validates an entity id path parameter.
func ValidID(ctx *fiber.Ctx, param string) (string, error) {
	id := ctx.Params(param)
	if err := ValidVar(ctx, id, "required,len=26,alphanum"); err != nil {
		return "", err
	}
	if !ident.Valid(id) {
		return "", apperr.ErrInvalidReq.Msg("%s is not a valid id", param)
	}
	return id, nil
}

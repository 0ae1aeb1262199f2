package i18n

import (
	"github.com/go-playground/locales/bn"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
)

// UT falls back to en. Validation messages are only translated to en; bn
// requests receive the en messages until a bn catalogue exists.
var UT = ut.New(en.New(), en.New(), bn.New())

package utils

import (
	"unicode/utf8"

	"recipe-backend/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	_ = Validate.RegisterValidation("recipe_title", validRecipeTitle)
}

// validRecipeTitle enforces the domain title length policy.
func validRecipeTitle(fl validator.FieldLevel) bool {
	length := utf8.RuneCountInString(fl.Field().String())
	return length >= domain.RecipeTitleMinLength && length <= domain.RecipeTitleMaxLength
}

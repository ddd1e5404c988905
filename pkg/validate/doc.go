// Package validate provides the field validation rules used by the admin
// services.
//
// Rules are plain closures evaluated by Apply, which collects every failing
// rule into a ValidationErrors value instead of stopping at the first
// problem. Callers therefore see all input problems from one call:
//
//	err := validate.Apply(
//	    validate.Required("userId", userID),
//	    validate.ValidEmail("email", email),
//	)
//	if verrs := validate.ExtractValidationErrors(err); verrs != nil {
//	    for _, ve := range verrs {
//	        fmt.Println(ve.Field, ve.Message)
//	    }
//	}
package validate

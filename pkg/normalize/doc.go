// Package normalize converts upstream Câmara record shapes into the canonical
// entities of package model.
//
// The mappers are pure and total: a well-formed but incomplete record maps to
// an entity with documented defaults instead of failing. The only failures are
// records that cannot identify themselves (ErrMissingID) and career entries
// whose date cannot yield a year (*DateError).
//
// Free text from the upstream goes through Text, which trims whitespace and
// maps both JSON null and the literal string "null" to the empty string.
//
// Example:
//
//	var env normalize.Envelope[normalize.Deputado]
//	if err := json.Unmarshal(body, &env); err != nil {
//	    return err
//	}
//	legislator, err := env.Dados.Legislator()
package normalize

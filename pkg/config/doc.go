// Package config loads formguard settings: the rule table, age and bio bounds,
// submit feedback timings, theme variant and logging. YAML files overlay the
// built-in defaults and the merged result is checked with go-playground
// validator tags plus a compile pass over every rule expression.
//
// Example file:
//
//	rules:
//	  fullName:
//	    pattern: '^[a-zA-Z\s]{2,80}$'
//	    message: Name must be 2-80 letters
//	age:
//	  min: 18
//	  max: 120
//	feedback:
//	  resetDelay: 5s
package config

package domain

import "errors"

// ErrUnknownQuestion is returned when an answer references an id absent from the question graph.
var ErrUnknownQuestion = errors.New("unknown question")

// ErrAlreadyAnswered is returned when a question id is recorded twice in one session.
var ErrAlreadyAnswered = errors.New("question already answered")

// ErrNotApplicable is returned when an answer targets a question the session is not offering.
var ErrNotApplicable = errors.New("question not applicable")

// ErrInvalidAnswer is returned when an answer value is not a boolean.
var ErrInvalidAnswer = errors.New("invalid answer")

// ErrInvalidRule is returned when a rule violates its construction contract.
var ErrInvalidRule = errors.New("invalid rule")

// ErrInvalidQuestion is returned when a question violates its construction contract.
var ErrInvalidQuestion = errors.New("invalid question")

// ErrDuplicateQuestion is returned when two questions share an id.
var ErrDuplicateQuestion = errors.New("duplicate question id")

// ErrInvalidPredicate is returned for malformed predicate trees.
var ErrInvalidPredicate = errors.New("invalid predicate")

// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package faults defines the protocol error taxonomy. Every failure an
// entry point can surface to a caller is one of these kinds; callers
// match with Is.
package faults

import (
	"errors"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidAmount
	KindInvalidState
	KindNotOwner
	KindEpochNotReady
	KindCalculatorFault
	KindNothingToClaim
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAmount:
		return "InvalidAmount"
	case KindInvalidState:
		return "InvalidState"
	case KindNotOwner:
		return "NotOwner"
	case KindEpochNotReady:
		return "EpochNotReady"
	case KindCalculatorFault:
		return "CalculatorFault"
	case KindNothingToClaim:
		return "NothingToClaim"
	default:
		return "Unknown"
	}
}

// Fault is a typed protocol error. The call that raised it has applied
// none of its effects.
type Fault struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *Fault {
	return &Fault{
		kind:    kind,
		message: message,
	}
}

func (f *Fault) Error() string {
	return f.kind.String() + ": " + f.message
}

func (f *Fault) Kind() Kind {
	return f.kind
}

func InvalidAmount(message string) *Fault {
	return New(KindInvalidAmount, message)
}

func InvalidState(message string) *Fault {
	return New(KindInvalidState, message)
}

func NotOwner(message string) *Fault {
	return New(KindNotOwner, message)
}

func EpochNotReady(message string) *Fault {
	return New(KindEpochNotReady, message)
}

func CalculatorFault(message string) *Fault {
	return New(KindCalculatorFault, message)
}

func NothingToClaim(message string) *Fault {
	return New(KindNothingToClaim, message)
}

// Is reports whether err is a Fault of the given kind.
func Is(err error, kind Kind) bool {
	var f *Fault
	if !errors.As(err, &f) {
		return false
	}
	return f.kind == kind
}

// IsFault reports whether the value is a protocol fault at all.
func IsFault(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var f *Fault
	return errors.As(e, &f)
}

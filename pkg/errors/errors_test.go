// Copyright (c) LimQ
// SPDX-License-Identifier: Apache-2.0

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/gaskeo/limq-panel/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var (
	err0 = errors.New("0")
	err1 = errors.New("1")
	err2 = errors.New("2")
)

func TestWrap(t *testing.T) {
	cases := []struct {
		desc    string
		wrapper error
		err     error
		msg     string
	}{
		{
			desc:    "wrap error with error",
			wrapper: err1,
			err:     err0,
			msg:     "1 : 0",
		},
		{
			desc:    "wrap nil with error",
			wrapper: err1,
			err:     nil,
			msg:     "1",
		},
		{
			desc:    "wrap error with nil",
			wrapper: nil,
			err:     err0,
			msg:     "",
		},
		{
			desc:    "wrap stdlib error with error",
			wrapper: err2,
			err:     stderrors.New("std"),
			msg:     "2 : std",
		},
	}

	for _, tc := range cases {
		wrapped := errors.Wrap(tc.wrapper, tc.err)
		if wrapped == nil {
			assert.Nil(t, tc.wrapper, fmt.Sprintf("%s: expected nil wrapper", tc.desc))
			continue
		}
		assert.Equal(t, tc.msg, wrapped.Error(), fmt.Sprintf("%s: expected %q got %q", tc.desc, tc.msg, wrapped.Error()))
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		desc      string
		container error
		contained error
		contains  bool
	}{
		{
			desc:      "contains wrapped error",
			container: errors.Wrap(err1, err0),
			contained: err0,
			contains:  true,
		},
		{
			desc:      "contains wrapper",
			container: errors.Wrap(err1, err0),
			contained: err1,
			contains:  true,
		},
		{
			desc:      "does not contain foreign error",
			container: errors.Wrap(err1, err0),
			contained: err2,
			contains:  false,
		},
		{
			desc:      "contains deeply wrapped error",
			container: errors.Wrap(err2, errors.Wrap(err1, err0)),
			contained: err0,
			contains:  true,
		},
		{
			desc:      "nil does not contain error",
			container: nil,
			contained: err0,
			contains:  false,
		},
	}

	for _, tc := range cases {
		contains := errors.Contains(tc.container, tc.contained)
		assert.Equal(t, tc.contains, contains, fmt.Sprintf("%s: expected %t got %t", tc.desc, tc.contains, contains))
	}
}

func TestUnwrap(t *testing.T) {
	wrapped := errors.Wrap(err1, err0)
	wrapper, err := errors.Unwrap(wrapped)
	assert.Equal(t, err1.Msg(), wrapper.Error(), "expected wrapper to match")
	assert.Equal(t, err0.Msg(), err.Error(), "expected wrapped error to match")
}

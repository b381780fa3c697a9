/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package mirror

import (
	"errors"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("mirror: not found")
	// ErrNilHost is the panic value raised when a Universe is built without a host.
	ErrNilHost = errors.New("mirror: nil host")
	// ErrForeignFacade is the panic value raised when a facade created by one
	// universe is handed to another.
	ErrForeignFacade = errors.New("mirror: facade belongs to another universe")
	// ErrNotRegistrable is returned by the Register helpers when the default
	// host does not accept registrations.
	ErrNotRegistrable = errors.New("mirror: default host does not accept registrations")
)

// NotFoundError reports that the host had nothing for a requested entity.
type NotFoundError struct {
	Msg string
}

// Error returns the message.
func (e *NotFoundError) Error() string { return e.Msg }

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

const (
	msgAssemblyNotFound    = "Assembly not found."
	msgModuleNotFound      = "Module not found."
	msgTypeNotFound        = "Type not found."
	msgMethodNotFound      = "Method not found."
	msgFieldNotFound       = "Field not found."
	msgPropertyNotFound    = "Property not found."
	msgEventNotFound       = "Event not found."
	msgConstructorNotFound = "Constructor not found."
	msgResourceNotFound    = "Resource not found."
	msgMemberNotFound      = "Member not found."

	msgNoBaseType       = "Type doesn't have a base type."
	msgNoElementType    = "Type doesn't have an element type."
	msgNoKeyType        = "Type doesn't have a key type."
	msgTypeNoAssembly   = "Type doesn't belong to an assembly."
	msgTypeNoModule     = "Type doesn't belong to a module."
	msgModuleNoAssembly = "Module doesn't belong to an assembly."
	msgNoDeclaringType  = "Member doesn't have a declaring type."
	msgNoGetter         = "Property doesn't have a getter."
	msgNoSetter         = "Property doesn't have a setter."
	msgNoAddMethod      = "Event doesn't have an add method."
	msgNoRemoveMethod   = "Event doesn't have a remove method."
	msgNoTag            = "Field doesn't have the requested tag."
	msgNoManifestModule = "Assembly doesn't have a manifest module."
	msgNoVersion        = "Assembly name doesn't have a version."
	msgNoChecksum       = "Assembly name doesn't have a checksum."
	msgNoFileName       = "Resource doesn't have a file name."
	msgNoReferencedAsm  = "Resource doesn't have a referenced assembly."
	msgValueHasNoType   = "Value doesn't have a type."
)

func notFound(msg string) error {
	return &NotFoundError{Msg: msg}
}

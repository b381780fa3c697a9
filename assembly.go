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
	"io"

	"go.uber.org/zap"

	"dirpx.dev/mirror/apis"
	uref "dirpx.dev/mirror/utils/reflect"
)

// Assembly is the canonical facade of a host assembly.
type Assembly struct {
	u      *Universe
	origin apis.Assembly
}

// Origin returns the wrapped host assembly.
func (a *Assembly) Origin() apis.Assembly { return a.origin }

// Equal reports whether a and o wrap equal origins.
func (a *Assembly) Equal(o *Assembly) bool {
	return a != nil && o != nil && a.origin == o.origin
}

// String returns the full assembly name.
func (a *Assembly) String() string { return a.origin.FullName() }

// IsMissing reports whether a is MissingAssembly.
func (a *Assembly) IsMissing() bool { return a == MissingAssembly }

// Name returns the assembly identity.
func (a *Assembly) Name() *AssemblyName {
	if a.u == nil {
		return missingName
	}
	return a.u.wrapName(a.origin.Name())
}

// FullName returns the name with its version, e.g. "example.com/m@v1.2.3".
func (a *Assembly) FullName() string { return a.origin.FullName() }

// GetTypes returns every type of the assembly. A load failure reported by the
// host is returned unchanged and no types are returned with it.
func (a *Assembly) GetTypes() ([]*Type, error) {
	ts, err := a.origin.Types()
	if err != nil {
		return nil, err
	}
	return wrapAll(ts, a.u.wrapType), nil
}

// GetLoadableTypes returns every type of the assembly, substituting
// TypeNotLoaded for the ones that failed to load. The host error itself is
// logged at warn level and not returned; a host that reports a total failure
// with no types yields an empty slice.
func (a *Assembly) GetLoadableTypes() []*Type {
	ts, err := a.origin.Types()
	if err != nil && a.u != nil {
		a.u.Logger().Warn("mirror: loading assembly types",
			zap.String("assembly", a.origin.FullName()),
			zap.Int("loaded", len(ts)),
			zap.Error(err),
		)
	}
	out := make([]*Type, len(ts))
	for i, t := range ts {
		if uref.IsNil(t) {
			out[i] = TypeNotLoaded
			continue
		}
		out[i] = a.u.wrapType(t)
	}
	return out
}

// GetExportedTypes returns the types visible outside the assembly.
func (a *Assembly) GetExportedTypes() []*Type {
	return wrapAll(a.origin.ExportedTypes(), a.u.wrapType)
}

// GetType finds a type of the assembly by simple or full name.
func (a *Assembly) GetType(name string, ignoreCase bool) (*Type, error) {
	return required(a.origin.Type(name, ignoreCase), msgTypeNotFound, a.u.wrapType)
}

// GetModules returns the modules of the assembly in host order.
func (a *Assembly) GetModules() []*Module {
	return wrapAll(a.origin.Modules(), a.u.wrapModule)
}

// GetModule finds a module of the assembly by name.
func (a *Assembly) GetModule(name string) (*Module, error) {
	return required(a.origin.Module(name), msgModuleNotFound, a.u.wrapModule)
}

// ManifestModule returns the module that carries the assembly manifest.
func (a *Assembly) ManifestModule() (*Module, error) {
	return required(a.origin.ManifestModule(), msgNoManifestModule, a.u.wrapModule)
}

// GetReferencedAssemblies returns the names of the assemblies a depends on.
func (a *Assembly) GetReferencedAssemblies() []*AssemblyName {
	return wrapAll(a.origin.ReferencedAssemblies(), a.u.wrapName)
}

// GetManifestResourceNames returns the names of the embedded resources.
func (a *Assembly) GetManifestResourceNames() []string {
	return a.origin.ManifestResourceNames()
}

// GetManifestResourceInfo describes the resource called name.
func (a *Assembly) GetManifestResourceInfo(name string) (*ResourceInfo, error) {
	return required(a.origin.ManifestResourceInfo(name), msgResourceNotFound, a.u.wrapResource)
}

// GetManifestResourceStream opens a resource. The caller closes the stream.
func (a *Assembly) GetManifestResourceStream(name string) (io.ReadCloser, error) {
	rc, err := a.origin.ManifestResourceStream(name)
	if err != nil {
		return nil, err
	}
	if uref.IsNil(rc) {
		return nil, notFound(msgResourceNotFound)
	}
	return rc, nil
}

// AssemblyName is the canonical facade of an assembly identity.
type AssemblyName struct {
	u      *Universe
	origin apis.AssemblyName
}

// Origin returns the wrapped host name.
func (n *AssemblyName) Origin() apis.AssemblyName { return n.origin }

// Equal reports whether n and o wrap equal origins.
func (n *AssemblyName) Equal(o *AssemblyName) bool {
	return n != nil && o != nil && n.origin == o.origin
}

// String returns the full name.
func (n *AssemblyName) String() string { return n.origin.FullName() }

// IsMissing reports whether n is the name of MissingAssembly.
func (n *AssemblyName) IsMissing() bool { return n == missingName }

// Name returns the simple name.
func (n *AssemblyName) Name() string { return n.origin.Name() }

// FullName returns the display name, version included.
func (n *AssemblyName) FullName() string { return n.origin.FullName() }

// Version returns the version component.
func (n *AssemblyName) Version() (string, error) {
	return requiredString(n.origin.Version(), msgNoVersion)
}

// Checksum returns the module checksum recorded at build time.
func (n *AssemblyName) Checksum() (string, error) {
	return requiredString(n.origin.Checksum(), msgNoChecksum)
}

// ResourceInfo is the canonical facade of a manifest resource description.
type ResourceInfo struct {
	u      *Universe
	origin apis.ManifestResourceInfo
}

// Origin returns the wrapped host description.
func (r *ResourceInfo) Origin() apis.ManifestResourceInfo { return r.origin }

// Equal reports whether r and o wrap equal origins.
func (r *ResourceInfo) Equal(o *ResourceInfo) bool {
	return r != nil && o != nil && r.origin == o.origin
}

// String returns the resource name.
func (r *ResourceInfo) String() string { return r.origin.Name() }

// Name returns the resource path within its file system.
func (r *ResourceInfo) Name() string { return r.origin.Name() }

// Location reports where the resource is stored.
func (r *ResourceInfo) Location() apis.ResourceLocation { return r.origin.Location() }

// FileName returns the file a linked resource lives in.
func (r *ResourceInfo) FileName() (string, error) {
	return requiredString(r.origin.FileName(), msgNoFileName)
}

// ReferencedAssembly returns the assembly a forwarded resource lives in.
func (r *ResourceInfo) ReferencedAssembly() (*Assembly, error) {
	return required(r.origin.ReferencedAssembly(), msgNoReferencedAsm, r.u.wrapAssembly)
}

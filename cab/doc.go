// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cab implements a reader and writer for the Microsoft Cabinet
// (CAB) archive container: the on-disk header/folder/file tables, the
// chained ms-zip data block format, and the filesystem-facing operations
// built on top of them (list, extract, pack, clone).
//
// A cabinet groups files into one or more "folders", each folder being an
// independent compression stream split into data blocks of at most 32768
// uncompressed bytes. Within a folder, block i>0 is inflated using block
// i-1's uncompressed output as a preset dictionary, so folders must be
// read and written block-by-block in order; folders themselves are
// independent of one another and may be processed concurrently.
//
// Only the "stored" and "ms-zip" compression types are implemented.
// Quantum and LZX folders are recognized (for List) but not decodable.
// Multi-volume cabinets (PREV_CABINET/NEXT_CABINET) are not supported.
//
// Normative reference: [MS-CAB], the Microsoft Cabinet File Format
// specification.
//
// [MS-CAB]: http://download.microsoft.com/download/4/d/a/4da14f27-b4ef-4170-a6e6-5b1ef85b1baa/[ms-cab].pdf
package cab

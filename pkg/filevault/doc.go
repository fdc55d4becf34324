// Package filevault implements a file-storage metadata service.
//
// The central operation is the upload transaction: an opaque bearer token is
// resolved to a user, the payload shape is validated, the claimed parent
// folder is checked, file content (if any) is materialized in a blob store,
// and an Entry record is inserted into the metadata repository. Folders carry
// no content; files and images always end up with a storage locator pointing
// at their bytes.
//
// All collaborators (entry/user repositories, session store, blob store) are
// injected interfaces, so the service is a pure function of request and
// collaborators and can be exercised with the in-memory implementations under
// repo/memory, session/memory and storage/memory.
package filevault

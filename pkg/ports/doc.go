/*
Package ports defines the driven ports (interfaces) of the folio contact form.

These interfaces decouple the controller from external implementations, allowing
it to work with various submission backends and session storage.

# Key Interfaces

  - Submitter: hands a valid submission to a backend (log, sqlite, redis, webhook).
  - FormStore: persists one form per visitor session between requests.
  - DistributedLocker: coordinates access to a session across server replicas.
*/
package ports

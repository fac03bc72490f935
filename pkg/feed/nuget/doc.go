// Package nuget implements [feed.Feed] against the NuGet v3 protocol.
//
// # Protocol
//
// A lookup resolves in up to three steps:
//
//  1. The service index (default https://api.nuget.org/v3/index.json) lists
//     resources; the RegistrationsBaseUrl resource is taken, preferring the
//     SemVer 2.0 variant.
//  2. The registration index at <base>/<lower-case id>/index.json lists pages
//     of catalog entries in ascending version order.
//  3. Pages that are not inlined are fetched from their @id.
//
// The last listed, non-prerelease entry becomes the record. Its dependency
// groups (one per target framework) are flattened into unique "id:version"
// pairs, where version is the inclusive lower bound of the declared range.
//
// # Caching and Auth
//
// Records and the registration base URL are cached through the shared
// integrations client with a TTL (default 24h). Private feeds take basic auth
// credentials via [Options].
//
// [feed.Feed]: github.com/matzehuels/nugetviz/pkg/feed.Feed
package nuget

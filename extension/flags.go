// flags.go defines constants for CLI flag names shared across extensions.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "metadata-file" -> FlagMetadataFile).

package extension

const (
	// Boolean flags

	FlagAll         = "all"          // Include every record
	FlagCount       = "count"        // Only print match counts
	FlagDiff        = "diff"         // Show diffs between versions
	FlagDryRun      = "dry-run"      // Preview without changing anything
	FlagForce       = "force"        // Overwrite existing state
	FlagIDs         = "ids"          // Only print matching doc_ids
	FlagIgnoreCase  = "ignore-case"  // Case-insensitive matching
	FlagInvertMatch = "invert-match" // Select non-matching lines
	FlagLocal       = "local"        // Use local scope
	FlagLong        = "long"         // Long format output
	FlagMarkup      = "markup"       // Match raw HTML
	FlagPDF         = "pdf"          // Select the primary PDF
	FlagRaw         = "raw"          // Raw output without formatting
	FlagReverse     = "reverse"      // Reverse sort order
	FlagText        = "text"         // Visible text only
	FlagTree        = "tree"         // Tree output
	FlagVotes       = "votes"        // Include votes

	// String flags

	FlagAddr         = "addr"          // Listen address
	FlagChange       = "change"        // Change description
	FlagDocID        = "doc-id"        // Document identifier
	FlagHTML         = "html"          // HTML rendition file (repeatable)
	FlagMetadata     = "metadata"      // Inline metadata JSON
	FlagMetadataFile = "metadata-file" // Metadata JSON file
	FlagServer       = "server"        // Remote server URL
	FlagSince        = "since"         // Duration threshold
	FlagSort         = "sort"          // Sort field
	FlagVersions     = "versions"      // Version range v1:v2
	FlagVoter        = "voter"         // Voter identifier

	// Integer flags

	FlagContext   = "context"   // Lines of context around matches
	FlagLimit     = "limit"     // Limit number of results
	FlagRendition = "rendition" // HTML rendition number
	FlagVersion   = "version"   // Specific version number
)

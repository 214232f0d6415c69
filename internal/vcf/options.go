package vcf

// Options configures a Driver. Every field here corresponds 1:1 to
// spec.md's "Input — configuration" list; Fields/Types/Numbers are not
// modeled as raw maps here because the driver is handed already-resolved
// parser components (built by the assemble package or by hand) rather than
// building them itself -- see internal/assemble for the collaborator that
// turns internal/header's field/type/number configuration into the
// FieldParser and ArrayOwner values a Driver is assembled from.
type Options struct {
	// ChunkLength is the number of records per emitted chunk.
	ChunkLength int
	// InputBufferSize is the ByteSource's refill buffer capacity, in bytes.
	InputBufferSize int
	// TempBufferSize is the ParserContext scratch buffer capacity, in bytes.
	TempBufferSize int
	// Ploidy is the genotype width: calldata/GT has exactly this many
	// allele slots per sample.
	Ploidy int
	// NSamples is the sample count, taken from the header.
	NSamples int
}

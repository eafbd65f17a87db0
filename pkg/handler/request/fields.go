package request

type ResultField int

const (
	ResultFieldGeneID ResultField = iota
	ResultFieldSymbol
	ResultFieldBiotype
	ResultFieldLogCPM
	ResultFieldLog2FC
	ResultFieldFDR
)

func (f ResultField) String() string {
	switch f {
	case ResultFieldGeneID:
		return "gene_id"
	case ResultFieldSymbol:
		return "symbol"
	case ResultFieldBiotype:
		return "biotype"
	case ResultFieldLogCPM:
		return "logcpm"
	case ResultFieldLog2FC:
		return "log2fc"
	case ResultFieldFDR:
		return "fdr"
	default:
		return "gene_id"
	}
}

func NewResultField(field string) ResultField {
	switch field {
	case "gene_id":
		return ResultFieldGeneID
	case "symbol":
		return ResultFieldSymbol
	case "biotype":
		return ResultFieldBiotype
	case "logcpm":
		return ResultFieldLogCPM
	case "log2fc":
		return ResultFieldLog2FC
	case "fdr":
		return ResultFieldFDR
	default:
		return ResultFieldGeneID // default ordering
	}
}

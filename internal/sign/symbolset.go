package sign

// SymbolSet identifies one of the sign-language alphabets the service can
// classify against. Each set is served by its own independently trained model.
type SymbolSet string

const (
	SetDigit SymbolSet = "digit"
	SetASL   SymbolSet = "asl"
	SetISL   SymbolSet = "isl"
)

// SymbolSpec is the per-set classification contract: the ordered label
// alphabet (index i names the symbol for output index i, so its length must
// equal the model's output width) and the input shape the model expects.
type SymbolSpec struct {
	Set      SymbolSet
	Labels   []string
	Width    int
	Height   int
	Channels int
}

// InputLen is the flat float32 count of one preprocessed image.
func (s *SymbolSpec) InputLen() int {
	return s.Width * s.Height * s.Channels
}

var digitLabels = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}

// ASL fingerspelling without the motion letters J and Z.
var aslLabels = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y",
}

var islLabels = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
}

// Specs returns the configured symbol sets in arbitration order. The order is
// load-bearing: the arbiter breaks confidence ties by picking the set that
// appears first here.
func Specs() []*SymbolSpec {
	return []*SymbolSpec{
		{Set: SetDigit, Labels: digitLabels, Width: 32, Height: 32, Channels: 3},
		{Set: SetASL, Labels: aslLabels, Width: 28, Height: 28, Channels: 1},
		{Set: SetISL, Labels: islLabels, Width: 32, Height: 32, Channels: 3},
	}
}

package policy

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNX graph contract: one input "obs" of shape [N, depth, size, size] and two
// outputs, "move" [N, 2] in [-1, 1] and "special" [N, NumSpecials] logits.
const (
	onnxInput       = "obs"
	onnxMoveOutput  = "move"
	onnxSpecialHead = "special"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// OnnxModel runs a policy network through ONNX Runtime.
// Calls are serialised: the session is shared by every controller of an
// archetype and the whole batch runs in one forward pass.
type OnnxModel struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	size    int
	depth   int
}

// NewOnnxModel opens the model file. The shared library is taken from
// ORT_SHARED_LIBRARY_PATH when set.
func NewOnnxModel(path string, size, depth int) (*OnnxModel, error) {
	if p := os.Getenv("ORT_SHARED_LIBRARY_PATH"); p != "" {
		ort.SetSharedLibraryPath(p)
	}
	ortInitOnce.Do(func() {
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("failed to init ort: %w", ortInitErr)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	defer options.Destroy()
	options.SetIntraOpNumThreads(1)
	options.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{onnxInput}, []string{onnxMoveOutput, onnxSpecialHead}, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &OnnxModel{session: session, size: size, depth: depth}, nil
}

// OnnxLoader returns a Loader producing OnnxModel values for the given
// observation geometry.
func OnnxLoader(size, depth int) Loader {
	return func(path string) (Model, error) {
		return NewOnnxModel(path, size, depth)
	}
}

func (m *OnnxModel) Predict(batch [][]float32) ([]Action, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	rowLen := m.depth * m.size * m.size
	input := make([]float32, 0, len(batch)*rowLen)
	for i, row := range batch {
		if len(row) != rowLen {
			return nil, fmt.Errorf("observation %d has %d values, want %d", i, len(row), rowLen)
		}
		input = append(input, row...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(batch))
	inputTensor, err := ort.NewTensor(ort.NewShape(n, int64(m.depth), int64(m.size), int64(m.size)), input)
	if err != nil {
		return nil, err
	}
	defer inputTensor.Destroy()

	moveTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(n, 2))
	if err != nil {
		return nil, err
	}
	defer moveTensor.Destroy()

	specialTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(n, NumSpecials))
	if err != nil {
		return nil, err
	}
	defer specialTensor.Destroy()

	if err := m.session.Run([]ort.Value{inputTensor}, []ort.Value{moveTensor, specialTensor}); err != nil {
		return nil, fmt.Errorf("onnx run: %w", err)
	}

	move := moveTensor.GetData()
	logits := specialTensor.GetData()
	out := make([]Action, len(batch))
	for i := range out {
		out[i] = DecodeAction(move[i*2:(i+1)*2], logits[i*NumSpecials:(i+1)*NumSpecials])
	}
	return out, nil
}

func (m *OnnxModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}

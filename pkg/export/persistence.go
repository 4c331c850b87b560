package export

import "github.com/ugorji/go/codec"

// msgpackHandle and cborHandle are stateless and safe for concurrent use,
// so a single package-level instance of each is shared across calls.
var (
	msgpackHandle codec.MsgpackHandle
	cborHandle    codec.CborHandle
)

// EncodeOptionsMsgpack serializes opts to msgpack, for saving a named
// export preset alongside a project file.
func EncodeOptionsMsgpack(opts ModelOptions) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, &msgpackHandle)
	if err := enc.Encode(opts); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeOptionsMsgpack is EncodeOptionsMsgpack's inverse.
func DecodeOptionsMsgpack(data []byte) (ModelOptions, error) {
	var opts ModelOptions
	dec := codec.NewDecoderBytes(data, &msgpackHandle)
	if err := dec.Decode(&opts); err != nil {
		return ModelOptions{}, err
	}
	return opts, nil
}

// EncodeOptionsCBOR serializes opts to CBOR, the format a web client
// embedding this library's export options in a JSON-adjacent API would
// prefer over msgpack for its self-describing type tags.
func EncodeOptionsCBOR(opts ModelOptions) ([]byte, error) {
	var buf []byte
	enc := codec.NewEncoderBytes(&buf, &cborHandle)
	if err := enc.Encode(opts); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeOptionsCBOR is EncodeOptionsCBOR's inverse.
func DecodeOptionsCBOR(data []byte) (ModelOptions, error) {
	var opts ModelOptions
	dec := codec.NewDecoderBytes(data, &cborHandle)
	if err := dec.Decode(&opts); err != nil {
		return ModelOptions{}, err
	}
	return opts, nil
}

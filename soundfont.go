/*
Package soundfont reads the preset and instrument structure of a SoundFont 2
bank. It walks the RIFF "sfbk" form, decodes the "pdta" hydra records and
builds a zone collection for every Preset and Instrument, leaving audio
sample data untouched.
*/
package soundfont

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

const (
	Riff = "RIFF"
	List = "LIST"
	Sfbk = "sfbk"
	Info = "INFO"
	Sdta = "sdta"
	Pdta = "pdta"

	RiffError         = "Invalid initial chunk ID of %s. Should be RIFF."
	SfbkError         = "Invalid form type of %s. Should be sfbk."
	ChunkSizeError    = "Invalid %s chunk size of %d. Should be a multiple of %d."
	ChunkOverrunError = "%s chunk claims %d bytes but only %d remain."
	MissingChunkError = "Missing required %s chunk."
)

// tracer writes to trace with key 'soundfont.sf2'
func tracer() tracing.Trace {
	return tracing.Select("soundfont.sf2")
}

/*
SubChunk is the 8-byte header of every RIFF chunk. The ID is read big-endian
so that it spells its four ASCII characters; the size is little-endian.
*/
type SubChunk struct {
	Id   uint32
	Size uint32
}

// FourCC returns the chunk ID as its four characters.
func (s *SubChunk) FourCC() string {
	return uint32AsString(s.Id)
}

func uint32AsString(number uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], number)
	return string(b[:])
}

func readSubChunk(reader io.Reader) (*SubChunk, error) {
	newSubChunk := &SubChunk{}
	if err := binary.Read(reader, binary.BigEndian, &newSubChunk.Id); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.LittleEndian, &newSubChunk.Size); err != nil {
		return nil, errors.Wrap(err, "reading chunk size")
	}
	return newSubChunk, nil
}

// Version is the content of an "ifil" or "iver" chunk.
type Version struct {
	Major uint16
	Minor uint16
}

/*
SoundFont is the loaded preset structure of a bank.

Presets and Instruments are positional: entry i belongs to header i. An
entry is nil when that entity could not be loaded; the reason is in
Problems. Non-fatal anomalies, such as a misplaced global zone, are listed
in Diagnostics.
*/
type SoundFont struct {
	Version Version
	Name    string

	PresetHeaders     []PresetHeader
	InstrumentHeaders []InstrumentHeader
	SampleHeaders     []SampleHeader

	Presets     []*Preset
	Instruments []*Instrument

	Problems    []error
	Diagnostics []error
}

/*
Load reads a complete SF2 bank from r. It fails only when the RIFF structure
itself cannot be followed or a required "pdta" chunk is unusable. Damage
limited to single presets or instruments is recorded in Problems and the
rest of the bank is still returned.
*/
func Load(r io.Reader) (*SoundFont, error) {
	bufferedReader := bufio.NewReader(r)

	riffHeader, err := readSubChunk(bufferedReader)
	if err != nil {
		return nil, errors.Wrap(err, "reading RIFF header")
	}
	if riffHeader.FourCC() != Riff {
		return nil, errors.Errorf(RiffError, riffHeader.FourCC())
	}
	var form uint32
	if err := binary.Read(bufferedReader, binary.BigEndian, &form); err != nil {
		return nil, errors.Wrap(err, "reading form type")
	}
	if uint32AsString(form) != Sfbk {
		return nil, errors.Errorf(SfbkError, uint32AsString(form))
	}

	// Bytes of the RIFF form left after the form type. No chunk may claim
	// more than this.
	remaining := int64(riffHeader.Size) - 4
	sf := &SoundFont{}
	var hydra map[string][]byte
	for remaining >= 8 {
		chunk, err := readSubChunk(bufferedReader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading chunk header")
		}
		remaining -= 8
		if int64(chunk.Size) > remaining {
			return nil, errors.Errorf(ChunkOverrunError, chunk.FourCC(), chunk.Size, remaining)
		}
		remaining -= int64(chunk.Size) + int64(chunk.Size%2)
		if chunk.FourCC() != List || chunk.Size < 4 {
			tracer().Debugf("skipping %s chunk of %d bytes", chunk.FourCC(), chunk.Size)
			if err := skip(bufferedReader, chunk.Size); err != nil {
				return nil, err
			}
			continue
		}
		var listType uint32
		if err := binary.Read(bufferedReader, binary.BigEndian, &listType); err != nil {
			return nil, errors.Wrap(err, "reading LIST type")
		}
		bodySize := chunk.Size - 4
		switch uint32AsString(listType) {
		case Info:
			body, err := readBody(bufferedReader, Info, bodySize)
			if err != nil {
				return nil, errors.Wrap(err, "reading INFO list")
			}
			if err := sf.readInfo(body); err != nil {
				return nil, err
			}
		case Pdta:
			body, err := readBody(bufferedReader, Pdta, bodySize)
			if err != nil {
				return nil, errors.Wrap(err, "reading pdta list")
			}
			if hydra, err = splitChunks(body); err != nil {
				return nil, errors.Wrap(err, "pdta")
			}
		default:
			// sdta and anything unknown: sample data is never decoded.
			if err := skip(bufferedReader, bodySize); err != nil {
				return nil, err
			}
		}
	}
	if hydra == nil {
		return nil, errors.Errorf(MissingChunkError, Pdta)
	}
	if err := sf.readHydra(hydra); err != nil {
		return nil, err
	}
	return sf, nil
}

/*
readBody reads a chunk body of size bytes plus its pad byte, if any. The
buffer grows with the bytes actually read, so a size field larger than the
file costs no more memory than the file itself.
*/
func readBody(reader io.Reader, id string, size uint32) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(reader, int64(size)))
	if err != nil {
		return nil, err
	}
	if len(body) < int(size) {
		return nil, errors.Errorf(ChunkOverrunError, id, size, len(body))
	}
	if size%2 == 1 {
		if _, err := io.CopyN(io.Discard, reader, 1); err != nil && err != io.EOF {
			return nil, err
		}
	}
	return body, nil
}

func skip(reader io.Reader, size uint32) error {
	n := int64(size) + int64(size%2)
	copied, err := io.CopyN(io.Discard, reader, n)
	// A missing pad byte at the very end of the file is tolerated.
	if err == io.EOF && copied >= int64(size) {
		return nil
	}
	return err
}

// splitChunks indexes the sub-chunks of a LIST body by ID. The byte slices
// alias body.
func splitChunks(body []byte) (map[string][]byte, error) {
	chunks := make(map[string][]byte)
	for offset := 0; offset+8 <= len(body); {
		reader := bytes.NewReader(body[offset : offset+8])
		chunk, err := readSubChunk(reader)
		if err != nil {
			return nil, err
		}
		offset += 8
		if int(chunk.Size) > len(body)-offset {
			return nil, errors.Errorf(ChunkOverrunError, chunk.FourCC(), chunk.Size, len(body)-offset)
		}
		chunks[chunk.FourCC()] = body[offset : offset+int(chunk.Size)]
		offset += int(chunk.Size) + int(chunk.Size%2)
	}
	return chunks, nil
}

func (sf *SoundFont) readInfo(body []byte) error {
	chunks, err := splitChunks(body)
	if err != nil {
		return errors.Wrap(err, "INFO")
	}
	if ifil, ok := chunks["ifil"]; ok {
		if err := binary.Read(bytes.NewReader(ifil), binary.LittleEndian, &sf.Version); err != nil {
			return errors.Wrap(err, "reading ifil")
		}
	}
	if inam, ok := chunks["INAM"]; ok {
		sf.Name = zeroTerminated(inam)
	}
	return nil
}

func zeroTerminated(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

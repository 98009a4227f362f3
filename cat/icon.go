package cat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ftl/sim-toolkit/sim"
)

// IccFileHandler reads elementary files from the SIM.
type IccFileHandler interface {
	ReadRecord(ctx context.Context, file sim.FileID, record int) ([]byte, error)
	ReadBinary(ctx context.Context, file sim.FileID, offset int, length int) ([]byte, error)
}

var errNoFileHandler = errors.New("no SIM file handler available")

// imageDescriptor of one image instance in a record of EF IMG according to [USIM] 4.6.1.1
type imageDescriptor struct {
	width  int
	height int
	coding byte
	file   sim.FileID
	offset int
	length int
}

const imageDescriptorLength = 9

func parseImageRecord(record []byte) (imageDescriptor, error) {
	if len(record) < 1+imageDescriptorLength || record[0] == 0 {
		return imageDescriptor{}, fmt.Errorf("invalid EF IMG record with %d bytes", len(record))
	}
	d := record[1 : 1+imageDescriptorLength]
	return imageDescriptor{
		width:  int(d[0]),
		height: int(d[1]),
		coding: d[2],
		file:   sim.FileID(uint16(d[3])<<8 | uint16(d[4])),
		offset: int(d[5])<<8 | int(d[6]),
		length: int(d[7])<<8 | int(d[8]),
	}, nil
}

// iconLoader reads icons from the SIM in the background.
type iconLoader struct {
	lock  sync.Mutex
	files IccFileHandler
}

func newIconLoader(files IccFileHandler) *iconLoader {
	return &iconLoader{files: files}
}

// SetFiles replaces the file handler. Loads that already started keep the previous one.
func (l *iconLoader) SetFiles(files IccFileHandler) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.files = files
}

func (l *iconLoader) currentFiles() IccFileHandler {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.files
}

// Load reads the icons of the given EF IMG records in order and reports the result through done.
// done is called from another goroutine.
func (l *iconLoader) Load(ctx context.Context, records []byte, done func([]*Icon, error)) {
	files := l.currentFiles()
	go func() {
		icons := make([]*Icon, 0, len(records))
		for _, record := range records {
			icon, err := loadIcon(ctx, files, record)
			if err != nil {
				done(nil, fmt.Errorf("cannot load icon record %d: %w", record, err))
				return
			}
			icons = append(icons, icon)
		}
		done(icons, nil)
	}()
}

func loadIcon(ctx context.Context, files IccFileHandler, record byte) (*Icon, error) {
	if files == nil {
		return nil, errNoFileHandler
	}
	raw, err := files.ReadRecord(ctx, sim.EFImg, int(record))
	if err != nil {
		return nil, err
	}
	descriptor, err := parseImageRecord(raw)
	if err != nil {
		return nil, err
	}
	data, err := files.ReadBinary(ctx, descriptor.file, descriptor.offset, descriptor.length)
	if err != nil {
		return nil, err
	}
	return &Icon{
		Width:  descriptor.width,
		Height: descriptor.height,
		Coding: descriptor.coding,
		Data:   data,
	}, nil
}

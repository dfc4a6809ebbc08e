package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/ezrec/hwrw/bus"
	"github.com/ezrec/hwrw/command"
	"github.com/ezrec/hwrw/iomap"
	"github.com/ezrec/hwrw/translate"
)

var windows = iomap.Windows{
	{Start: 0x4000_0000, End: 0x4010_0000},
}

var _ = Describe("Dispatcher", func() {
	var (
		mockCtrl *gomock.Controller
		mockBus  *MockBus
		d        *Dispatcher
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockBus = NewMockBus(mockCtrl)
		d = NewDispatcher(mockBus, windows)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should read a run of registers in address order", func() {
		var calls []any
		for n := range uint32(8) {
			calls = append(calls, mockBus.EXPECT().
				Read32(iomap.ToAccessSpace(0x4002_4000+n*4)).
				Return(n*0x10, nil))
		}
		gomock.InOrder(calls...)

		status := d.HandleCommand([]byte("r 8 0x40024000"))

		Expect(status.Code).To(Equal(STATUS_OK))
		Expect(status.Err).To(BeNil())
		Expect(status.Consumed).To(Equal(len("r 8 0x40024000")))
		Expect(status.Truncated).To(BeFalse())

		lines := strings.Split(strings.TrimSuffix(string(d.Response()), "\n"), "\n")
		Expect(lines).To(HaveLen(8))
		Expect(lines[0]).To(Equal("0x40024000 0"))
		Expect(lines[7]).To(Equal("0x4002401c 112"))
	})

	It("should render a single register in decimal", func() {
		mockBus.EXPECT().
			Read32(iomap.ToAccessSpace(0x4002_4000)).
			Return(uint32(4660), nil)

		status := d.HandleCommand([]byte("r 1 0x40024000\n"))

		Expect(status.Ok()).To(BeTrue())
		Expect(string(d.Response())).To(Equal("4660\n"))
	})

	It("should use the configured register stride", func() {
		d.Stride = 1
		gomock.InOrder(
			mockBus.EXPECT().Read32(iomap.ToAccessSpace(0x4002_4000)).Return(uint32(1), nil),
			mockBus.EXPECT().Read32(iomap.ToAccessSpace(0x4002_4001)).Return(uint32(2), nil),
		)

		status := d.HandleCommand([]byte("r 2 0x40024000"))

		Expect(status.Ok()).To(BeTrue())
		Expect(string(d.Response())).To(Equal("0x40024000 1\n0x40024001 2\n"))
	})

	It("should write a register", func() {
		mockBus.EXPECT().
			Write32(iomap.ToAccessSpace(0x4002_4000), uint32(0x222)).
			Return(nil)

		status := d.HandleCommand([]byte("w 0x40024000 0x222"))

		Expect(status.Code).To(Equal(STATUS_OK))
		Expect(string(d.Response())).To(Equal(RESPONSE_WRITE_OK))
	})

	It("should accept a read of zero registers without access", func() {
		status := d.HandleCommand([]byte("r 0 0x40024000"))

		Expect(status.Code).To(Equal(STATUS_OK))
		Expect(d.Response()).To(BeEmpty())
	})

	Context("with a previous result", func() {
		BeforeEach(func() {
			mockBus.EXPECT().
				Write32(iomap.ToAccessSpace(0x4002_4000), uint32(1)).
				Return(nil)
			Expect(d.HandleCommand([]byte("w 0x40024000 1")).Ok()).To(BeTrue())
		})

		It("should reject an unknown verb", func() {
			status := d.HandleCommand([]byte("x foo"))

			Expect(status.Code).To(Equal(STATUS_REJECTED))
			Expect(errors.Is(status.Err, command.ErrUnknownVerb)).To(BeTrue())
			Expect(status.Consumed).To(Equal(5))
			Expect(status.Diagnostic).To(ContainElements(translate.Usage()))
			Expect(status.Diagnostic[0]).To(ContainSubstring("x foo"))
			Expect(string(d.Response())).To(Equal(RESPONSE_WRITE_OK))
		})

		It("should reject a malformed field", func() {
			status := d.HandleCommand([]byte("w 0x40024000 0xzz"))

			Expect(status.Code).To(Equal(STATUS_REJECTED))
			Expect(errors.Is(status.Err, command.ErrMalformedField)).To(BeTrue())
			Expect(string(d.Response())).To(Equal(RESPONSE_WRITE_OK))
		})

		It("should reject an address outside the windows", func() {
			status := d.HandleCommand([]byte("w 0x50000000 1"))

			Expect(status.Code).To(Equal(STATUS_REJECTED))
			Expect(errors.Is(status.Err, iomap.ErrAddressOutOfRange)).To(BeTrue())
			Expect(string(d.Response())).To(Equal(RESPONSE_WRITE_OK))
		})

		It("should reject a read running off the end of a window", func() {
			status := d.HandleCommand([]byte("r 2 0x400ffffc"))

			Expect(status.Code).To(Equal(STATUS_REJECTED))
			Expect(errors.Is(status.Err, iomap.ErrAddressOutOfRange)).To(BeTrue())
		})

		It("should fail on an access fault and keep the previous result", func() {
			fault := &bus.ErrFault{Address: iomap.ToAccessSpace(0x4002_4004), Reason: "test"}
			gomock.InOrder(
				mockBus.EXPECT().Read32(iomap.ToAccessSpace(0x4002_4000)).Return(uint32(7), nil),
				mockBus.EXPECT().Read32(iomap.ToAccessSpace(0x4002_4004)).Return(uint32(0), fault),
			)

			status := d.HandleCommand([]byte("r 4 0x40024000"))

			Expect(status.Code).To(Equal(STATUS_FAILED))
			Expect(errors.Is(status.Err, bus.ErrAccessFault)).To(BeTrue())
			Expect(string(d.Response())).To(Equal(RESPONSE_WRITE_OK))
			Expect(d.Stats()).To(Equal(Stats{Commands: 2, Ok: 1, Failed: 1}))
		})
	})

	It("should truncate oversized input and run the prefix", func() {
		mockBus.EXPECT().
			Write32(iomap.ToAccessSpace(0x4002_4000), uint32(0x222)).
			Return(nil)

		payload := []byte("w 0x40024000 0x222")
		payload = append(payload, bytes.Repeat([]byte{'\n'}, 2000-len(payload))...)

		status := d.HandleCommand(payload)

		Expect(status.Code).To(Equal(STATUS_OK))
		Expect(status.Truncated).To(BeTrue())
		Expect(status.Consumed).To(Equal(MAX_DATA))
		Expect(d.Stats().Truncated).To(Equal(uint64(1)))
		Expect(errors.Is(status.Warning(), ErrInputTruncated)).To(BeTrue())
		Expect(status.String()).To(ContainSubstring("input truncated"))
	})

	It("should report truncation alongside a rejection", func() {
		payload := bytes.Repeat([]byte{'r'}, 2000)

		status := d.HandleCommand(payload)

		Expect(status.Code).To(Equal(STATUS_REJECTED))
		Expect(status.Truncated).To(BeTrue())
		Expect(status.Consumed).To(Equal(MAX_DATA))

		var errCommand *ErrCommand
		Expect(errors.As(status.Err, &errCommand)).To(BeTrue())
		Expect(errCommand.Input).To(HaveLen(MAX_DATA))
	})

	It("should record every command", func() {
		recorder := NewMockRecorder(mockCtrl)
		d.Recorder = recorder

		mockBus.EXPECT().
			Read32(iomap.ToAccessSpace(0x4002_4000)).
			Return(uint32(9), nil)

		var records []Record
		recorder.EXPECT().
			Record(gomock.Any()).
			Do(func(rec Record) { records = append(records, rec) }).
			Times(2)

		ok := d.HandleCommand([]byte("r 1 0x40024000\n"))
		bad := d.HandleCommand([]byte("x"))

		Expect(records).To(HaveLen(2))
		Expect(records[0].ID).To(Equal(ok.ID))
		Expect(records[0].Input).To(Equal("r 1 0x40024000"))
		Expect(records[0].Command).To(Equal(command.Read(1, 0x4002_4000)))
		Expect(records[0].Values).To(Equal([]uint32{9}))
		Expect(records[1].ID).To(Equal(bad.ID))
		Expect(records[1].Status.Code).To(Equal(STATUS_REJECTED))
		Expect(records[1].Command).To(Equal(command.Command{}))
	})
})

var _ = Describe("Dispatcher with a simulated bus", func() {
	var (
		sim *bus.Sim
		d   *Dispatcher
	)

	BeforeEach(func() {
		sim = bus.NewSim()
		d = NewDispatcher(sim, windows)
	})

	It("should read back a written value", func() {
		for _, value := range []uint32{0, 1, 0x222, 0xffff_ffff} {
			text := fmt.Sprintf("w 0x40024000 0x%x", value)
			Expect(d.HandleCommand([]byte(text)).Ok()).To(BeTrue())
			Expect(d.HandleCommand([]byte("r 1 0x40024000")).Ok()).To(BeTrue())
			Expect(string(d.Response())).To(Equal(fmt.Sprintf("%d\n", value)))
		}
	})

	It("should perform no access for a zero register read", func() {
		Expect(d.HandleCommand([]byte("r 0 0x40024000")).Ok()).To(BeTrue())
		Expect(sim.Stats()).To(Equal(bus.Stats{}))
	})

	It("should report a long read clipped to the buffer at a line boundary", func() {
		d.MaxInput = 64

		status := d.HandleCommand([]byte("r 16 0x40024000"))
		Expect(status.Ok()).To(BeTrue())
		Expect(status.Clipped).To(BeTrue())
		Expect(status.Truncated).To(BeFalse())
		Expect(errors.Is(status.Warning(), ErrResponseClipped)).To(BeTrue())
		Expect(errors.Is(status.Warning(), ErrInputTruncated)).To(BeFalse())
		Expect(status.String()).To(ContainSubstring("response clipped"))
		Expect(d.Stats().Clipped).To(Equal(uint64(1)))

		response := d.Response()
		Expect(len(response)).To(BeNumerically("<=", 64))
		Expect(string(response)).To(HaveSuffix("\n"))
		Expect(bytes.Count(response, []byte{'\n'})).To(Equal(4))
	})

	It("should report a default sized read of 100 registers as clipped", func() {
		status := d.HandleCommand([]byte("r 100 0x40024000"))
		Expect(status.Ok()).To(BeTrue())
		Expect(status.Clipped).To(BeTrue())
		Expect(bytes.Count(d.Response(), []byte{'\n'})).To(Equal(78))
	})

	It("should not report a read that fits as clipped", func() {
		status := d.HandleCommand([]byte("r 16 0x40024000"))
		Expect(status.Clipped).To(BeFalse())
		Expect(status.Warning()).To(BeNil())
	})

	It("should return the response of the command it executed", func() {
		sim.Preload(0x4002_4000, 77)

		status, response := d.Execute([]byte("r 1 0x40024000"))
		Expect(status.Ok()).To(BeTrue())
		Expect(string(response)).To(Equal("77\n"))

		status, response = d.Execute([]byte("r 1 0x50000000"))
		Expect(status.Code).To(Equal(STATUS_REJECTED))
		Expect(response).To(BeNil())
		Expect(string(d.Response())).To(Equal("77\n"))
	})

	It("should never mix the results of concurrent commands", func() {
		sim.Preload(0x4002_4000, 0x1111)
		sim.Preload(0x4003_0000, 0x2222)
		sim.Preload(0x4003_0004, 0x3333)

		one := "4369\n"
		two := "0x40030000 8738\n0x40030004 13107\n"

		for range 100 {
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				d.HandleCommand([]byte("r 1 0x40024000"))
			}()
			go func() {
				defer wg.Done()
				d.HandleCommand([]byte("r 2 0x40030000"))
			}()
			wg.Wait()

			Expect(string(d.Response())).To(BeElementOf(one, two))
		}
	})
})

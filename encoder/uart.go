package encoder

import "fmt"

// fCPU is the ATmega328P clock this backend targets (spec §4.I).
const fCPU = 16000000

// ubrrFor computes the UBRR divisor for baud, using the double-speed
// (U2X0) divisor at higher baud rates where the normal-speed divisor's
// rounding error would exceed the typical 2% UART tolerance (spec
// §4.I: "parameterized by baud rate ... with double-speed mode
// support").
func ubrrFor(baud int) (ubrr int, doubleSpeed bool) {
	if baud >= 57600 {
		return fCPU/(8*baud) - 1, true
	}
	return fCPU/(16*baud) - 1, false
}

// uartHelpers renders the UART setup and print routines shared by
// every generated program (spec §4.I): setup_uart, uart_transmit,
// uart_print_string, print_number, print_newline, print_space.
func uartHelpers(baud int) string {
	if baud <= 0 {
		baud = 9600
	}
	ubrr, doubleSpeed := ubrrFor(baud)
	ubrrHi := (ubrr >> 8) & 0xFF
	ubrrLo := ubrr & 0xFF

	u2x := 0
	if doubleSpeed {
		u2x = 1
	}

	return fmt.Sprintf(`; UART setup for %d baud (UBRR=%d, U2X0=%d)
setup_uart:
	push r16
	ldi r16, %d
	sts 0x00C5, r16
	ldi r16, %d
	sts 0x00C4, r16
	ldi r16, %d
	sts 0x00C0, r16
	ldi r16, (1<<3)
	sts 0x00C1, r16
	ldi r16, (1<<2)|(1<<1)
	sts 0x00C2, r16
	pop r16
	ret

; transmits the byte in r24
uart_transmit:
	push r17
uart_transmit_wait:
	lds r17, 0x00C0
	sbrs r17, 5
	rjmp uart_transmit_wait
	sts 0x00C6, r24
	pop r17
	ret

; prints the null-terminated progmem string pointed to by r25:r24
uart_print_string:
	push r30
	push r31
	push r24
	mov r30, r24
	mov r31, r25
uart_print_string_loop:
	lpm r24, Z+
	tst r24
	breq uart_print_string_done
	call uart_transmit
	rjmp uart_print_string_loop
uart_print_string_done:
	pop r24
	pop r31
	pop r30
	ret

; prints the unsigned byte in r24 as decimal, suppressing leading
; zeros except for the value 0 itself (spec §4.I)
print_number:
	push r16
	push r17
	push r18
	push r24
	push r25
	clr r17
	ldi r16, 100
	call divmod10x
	tst r24
	breq print_number_skip_hundreds
	ldi r17, 1
	subi r24, -'0'
	call uart_transmit
print_number_skip_hundreds:
	mov r24, r25
	ldi r16, 10
	call divmod10x
	cpi r17, 1
	breq print_number_force_tens
	tst r24
	breq print_number_skip_tens
print_number_force_tens:
	ldi r17, 1
	subi r24, -'0'
	call uart_transmit
print_number_skip_tens:
	mov r24, r25
	subi r24, -'0'
	call uart_transmit
	pop r25
	pop r24
	pop r18
	pop r17
	pop r16
	ret

; r24 = r24 / r16 and r25 = r24 mod r16 (unsigned); helper for
; print_number's digit extraction
divmod10x:
	push r18
	clr r18
divmod10x_loop:
	cp r24, r16
	brlo divmod10x_done
	sub r24, r16
	inc r18
	rjmp divmod10x_loop
divmod10x_done:
	mov r25, r24
	mov r24, r18
	pop r18
	ret

print_newline:
	push r24
	ldi r24, 13
	call uart_transmit
	ldi r24, 10
	call uart_transmit
	pop r24
	ret

print_space:
	push r24
	ldi r24, ' '
	call uart_transmit
	pop r24
	ret

`, baud, ubrr, u2x, ubrrHi, ubrrLo, u2x<<1)
}

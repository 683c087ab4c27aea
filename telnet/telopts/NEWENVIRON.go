package telopts

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/moodclient/mudclient/telnet"
)

const (
	newenvironIS byte = iota
	newenvironSEND
	newenvironINFO
)

const (
	newenvironVAR byte = iota
	newenvironVALUE
	newenvironESC
	newenvironUSERVAR
)

// NEWENVIRONWellKnownVars are the variables RFC 1572 defines. Everything else is a USERVAR.
var NEWENVIRONWellKnownVars = []string{"USER", "JOB", "ACCT", "PRINTER", "SYSTEMTYPE", "DISPLAY"}

func RegisterNEWENVIRON(usage telnet.TelOptUsage, vars map[string]string) telnet.TelnetOption {
	option := &NEWENVIRON{
		BaseTelOpt: NewBaseTelOpt(telnet.OptNewEnviron, "NEW-ENVIRON", usage),

		localWellKnownVars: make(map[string]string),
		localUserVars:      make(map[string]string),
	}

	for key, value := range vars {
		if slices.Contains(NEWENVIRONWellKnownVars, key) {
			option.localWellKnownVars[key] = value
		} else {
			option.localUserVars[key] = value
		}
	}

	return option
}

// NEWENVIRON answers the remote's SEND requests with the configured environment
// variables. With no variables configured the answer is an empty IS, which tells the
// remote there is nothing to report.
type NEWENVIRON struct {
	BaseTelOpt

	localVarsLock      sync.Mutex
	localWellKnownVars map[string]string
	localUserVars      map[string]string
}

func (o *NEWENVIRON) Code() telnet.TelOptCode {
	return telnet.OptNewEnviron
}

func (o *NEWENVIRON) String() string {
	return "NEW-ENVIRON"
}

func (o *NEWENVIRON) encodeText(buffer *bytes.Buffer, text string) {
	for _, b := range []byte(text) {
		if b <= newenvironUSERVAR {
			// VAR, VALUE, ESC, or USERVAR need to be escaped with an ESC
			buffer.WriteByte(newenvironESC)
		}

		buffer.WriteByte(b)
	}
}

func (o *NEWENVIRON) decodeText(buffer []byte) (int, string) {
	var textBytes bytes.Buffer

	var bufferIndex int
	for bufferIndex = 0; bufferIndex < len(buffer); bufferIndex++ {
		b := buffer[bufferIndex]
		if b == newenvironESC {
			bufferIndex++
			if bufferIndex >= len(buffer) {
				break
			}
		} else if b <= newenvironUSERVAR {
			break
		}

		textBytes.WriteByte(buffer[bufferIndex])
	}

	return bufferIndex, textBytes.String()
}

func (o *NEWENVIRON) writeVarValues(buffer *bytes.Buffer, token byte, keys []string, values map[string]string) {
	slices.Sort(keys)

	for _, key := range keys {
		buffer.WriteByte(token)
		o.encodeText(buffer, key)

		value, hasValue := values[key]
		if hasValue {
			buffer.WriteByte(newenvironVALUE)
			o.encodeText(buffer, value)
		}
	}
}

func (o *NEWENVIRON) subnegotiateSEND(request []byte) {
	var varKeys, userVarKeys []string
	includeAllVars := len(request) == 0
	includeAllUservars := len(request) == 0

	var index int
	for index < len(request) {
		nextToken := request[index]
		index++

		if nextToken != newenvironUSERVAR && nextToken != newenvironVAR {
			continue
		}

		keySize, key := o.decodeText(request[index:])
		index += keySize

		switch {
		case keySize == 0 && nextToken == newenvironUSERVAR:
			includeAllUservars = true
		case keySize == 0:
			includeAllVars = true
		case nextToken == newenvironUSERVAR:
			userVarKeys = append(userVarKeys, key)
		default:
			varKeys = append(varKeys, key)
		}
	}

	if includeAllVars {
		for key := range o.localWellKnownVars {
			if !slices.Contains(varKeys, key) {
				varKeys = append(varKeys, key)
			}
		}
	}

	if includeAllUservars {
		for key := range o.localUserVars {
			if !slices.Contains(userVarKeys, key) {
				userVarKeys = append(userVarKeys, key)
			}
		}
	}

	var buffer bytes.Buffer
	buffer.WriteByte(newenvironIS)
	o.writeVarValues(&buffer, newenvironVAR, varKeys, o.localWellKnownVars)
	o.writeVarValues(&buffer, newenvironUSERVAR, userVarKeys, o.localUserVars)

	o.Negotiator().Send(telnet.Command{
		OpCode:         telnet.SB,
		Option:         telnet.OptNewEnviron,
		Subnegotiation: buffer.Bytes(),
	})
}

func (o *NEWENVIRON) Subnegotiate(subnegotiation []byte) error {
	if len(subnegotiation) == 0 {
		return errors.New("new-environ: received empty subnegotiation")
	}

	if subnegotiation[0] == newenvironSEND {
		if o.LocalState() != telnet.TelOptAccepted {
			return nil
		}

		o.localVarsLock.Lock()
		defer o.localVarsLock.Unlock()

		o.subnegotiateSEND(subnegotiation[1:])
		return nil
	}

	if subnegotiation[0] == newenvironIS || subnegotiation[0] == newenvironINFO {
		// We never ask the remote for its environment
		return nil
	}

	return fmt.Errorf("new-environ: unknown subnegotiation: %+v", subnegotiation)
}

func (o *NEWENVIRON) SubnegotiationString(subnegotiation []byte) (string, error) {
	if len(subnegotiation) == 0 {
		return "", errors.New("new-environ: received empty subnegotiation")
	}

	var sb strings.Builder
	switch subnegotiation[0] {
	case newenvironIS:
		sb.WriteString("IS")
	case newenvironSEND:
		sb.WriteString("SEND")
	case newenvironINFO:
		sb.WriteString("INFO")
	default:
		return "", fmt.Errorf("new-environ: unknown subnegotiation: %+v", subnegotiation)
	}

	index := 1
	for index < len(subnegotiation) {
		token := subnegotiation[index]
		index++

		switch token {
		case newenvironVAR:
			sb.WriteString(" VAR ")
		case newenvironUSERVAR:
			sb.WriteString(" USERVAR ")
		case newenvironVALUE:
			sb.WriteString(" VALUE ")
		default:
			return "", fmt.Errorf("new-environ: unexpected byte %d", token)
		}

		size, text := o.decodeText(subnegotiation[index:])
		index += size
		sb.WriteString(text)
	}

	return sb.String(), nil
}

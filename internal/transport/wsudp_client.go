package transport

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"net/url"

	"github.com/gorilla/websocket"
	channels "github.com/niceyeti/channerics/channels"

	"github.com/marcson909/client-server-multiplayer-playground/internal/protocol"
)

// Dial connects to a WSUDPListener: it opens the websocket, reads the
// server-assigned handshake token, then opens a UDP socket to udpAddr for
// the unreliable channel, prefixing every outgoing datagram with the
// token so the server's shared socket can demux it back to this session.
func Dial(wsURL, udpAddr string) (Session, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("transport: parse ws url: %w", err)
	}

	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial websocket: %w", err)
	}
	ws.SetReadLimit(maxMessageSize)

	var hs handshake
	if err := ws.ReadJSON(&hs); err != nil {
		ws.Close()
		return nil, fmt.Errorf("transport: read handshake: %w", err)
	}

	raddr, err := net.ResolveUDPAddr("udp", udpAddr)
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("transport: resolve udp addr: %w", err)
	}
	udpConn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		ws.Close()
		return nil, fmt.Errorf("transport: dial udp: %w", err)
	}

	s := &clientSession{
		token: hs.Token,
		ws:    ws,
		udp:   udpConn,

		reliableIn:   make(chan *protocol.Envelope, 64),
		unreliableIn: make(chan *protocol.Envelope, 64),
		closed:       make(chan struct{}),
	}
	s.inbound = channels.Merge(s.closed, s.reliableIn, s.unreliableIn)

	go s.readReliable()
	go s.readUnreliable()

	return s, nil
}

// clientSession is the client-side mirror of wsudpSession: one websocket
// plus one connected UDP socket, fanned into a single Inbound channel.
type clientSession struct {
	token string
	ws    *websocket.Conn
	udp   *net.UDPConn

	reliableIn   chan *protocol.Envelope
	unreliableIn chan *protocol.Envelope
	inbound      <-chan *protocol.Envelope

	closed chan struct{}
}

func (s *clientSession) ID() string { return s.token }

func (s *clientSession) SendReliable(env *protocol.Envelope) error {
	w, err := s.ws.NextWriter(websocket.BinaryMessage)
	if err != nil {
		return fmt.Errorf("transport: open reliable writer: %w", err)
	}
	if err := protocol.EncodeFrame(w, env); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (s *clientSession) SendUnreliable(env *protocol.Envelope) error {
	payload, err := protocol.EncodeDatagram(env)
	if err != nil {
		return err
	}
	_, err = s.udp.Write(joinTokenFrame(s.token, payload))
	return err
}

func (s *clientSession) Inbound() <-chan *protocol.Envelope { return s.inbound }
func (s *clientSession) Closed() <-chan struct{}            { return s.closed }

func (s *clientSession) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	s.udp.Close()
	return s.ws.Close()
}

func (s *clientSession) readReliable() {
	defer s.Close()
	for {
		_, r, err := s.ws.NextReader()
		if err != nil {
			return
		}
		env, err := protocol.DecodeFrame(bufio.NewReader(r))
		if err != nil {
			log.Printf("transport: dropped malformed reliable frame: %v", err)
			continue
		}
		select {
		case s.reliableIn <- env:
		case <-s.closed:
			return
		}
	}
}

func (s *clientSession) readUnreliable() {
	buf := make([]byte, 65536)
	for {
		n, err := s.udp.Read(buf)
		if err != nil {
			select {
			case <-s.closed:
				return
			default:
				log.Printf("transport: udp read error: %v", err)
				continue
			}
		}
		env, err := protocol.DecodeDatagram(buf[:n])
		if err != nil {
			log.Printf("transport: dropped malformed unreliable datagram: %v", err)
			continue
		}
		select {
		case s.unreliableIn <- env:
		case <-s.closed:
			return
		default:
		}
	}
}

package server

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/GopeshSingal/gofast-server/internal/command"
	"github.com/GopeshSingal/gofast-server/internal/resp"
)

var sharedBufferPool = newBufferPool()

// handleConnection runs the sequential read-parse-apply-write loop for
// one client. Protocol and command-shape errors become -ERR replies
// without closing the connection; I/O errors end it.
func (s *Server) handleConnection(conn net.Conn) {
	connID := uuid.NewString()
	log := s.logger.With(zap.String("conn", connID), zap.String("remote", conn.RemoteAddr().String()))
	log.Info("connection opened")
	s.engine.Stats().Connections.Add(1)
	defer func() {
		conn.Close()
		s.engine.Stats().Connections.Add(-1)
		log.Info("connection closed")
	}()

	var limiter *rate.Limiter
	if ops := s.cfg.opsPerSec(); ops > 0 {
		limiter = rate.NewLimiter(rate.Limit(ops), int(ops))
	}

	authenticated := !s.cfg.RequireAuth
	buf := sharedBufferPool.get()
	defer func() { sharedBufferPool.put(buf) }()

	readChunk := make([]byte, 4096)

	for {
		frame, n, err := resp.Parse(buf)
		if errors.Is(err, resp.ErrIncomplete) {
			if s.cfg.ReadTimeout > 0 {
				conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
			}
			read, ioErr := conn.Read(readChunk)
			if ioErr != nil {
				if ioErr != io.EOF {
					log.Warn("read error", zap.Error(ioErr))
				}
				return
			}
			buf = append(buf, readChunk[:read]...)
			continue
		}
		if err != nil {
			if werr := s.writeReplyTimed(conn, resp.ErrorReply("ERR Protocol error: "+err.Error())); werr != nil {
				log.Warn("write error", zap.Error(werr))
				return
			}
			// The malformed bytes cannot be resynchronised; drop them and
			// keep reading on the same connection.
			buf = buf[:0]
			continue
		}

		buf = buf[n:]

		if limiter != nil && !limiter.Allow() {
			s.writeReplyTimed(conn, resp.ErrorReply("ERR rate limit exceeded"))
			continue
		}

		cmd, err := command.Parse(frame)
		if err != nil {
			s.writeReplyTimed(conn, resp.ErrorReply(err.Error()))
			continue
		}

		if cmd.Name == "AUTH" {
			ok := s.checkPassword(cmd.Args[0])
			if !ok {
				s.writeReplyTimed(conn, resp.ErrorReply("ERR invalid password"))
				continue
			}
			authenticated = true
			s.writeReplyTimed(conn, resp.SimpleString("OK"))
			continue
		}

		if s.cfg.RequireAuth && !authenticated {
			s.writeReplyTimed(conn, resp.ErrorReply("NOAUTH Authentication required"))
			continue
		}

		reply := s.engine.Apply(cmd)
		if err := s.writeReplyTimed(conn, reply); err != nil {
			log.Warn("write error", zap.Error(err))
			return
		}
	}
}

func (s *Server) checkPassword(attempt []byte) bool {
	if len(s.cfg.PasswordHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.cfg.PasswordHash, attempt) == nil
}

func (s *Server) writeReplyTimed(conn net.Conn, f resp.Frame) error {
	if s.cfg.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	}
	return writeReply(conn, f)
}

func writeReply(conn net.Conn, f resp.Frame) error {
	_, err := conn.Write(resp.Encode(f))
	return err
}

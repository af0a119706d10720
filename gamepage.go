package main

// Single-page client for the game. Kept deliberately simple: it is a thin
// rendering of the public projection plus the private prompt; all rules live
// server-side.
const gamePageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Undercover</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 32rem; padding: 0 1rem; }
  h1 { margin-bottom: 0.25rem; }
  #status { margin-bottom: 1rem; font-size: 0.9rem; color: #555; }
  .screen { display: none; }
  .screen.active { display: block; }
  ul { padding: 0; list-style: none; }
  li { padding: 0.35rem 0; border-bottom: 1px solid #ddd; }
  button { padding: 0.4rem 0.9rem; margin: 0.2rem 0.2rem 0.2rem 0; cursor: pointer; }
  input { padding: 0.4rem; margin: 0.2rem 0; }
  .prompt { font-size: 1.15rem; font-weight: 600; margin: 0.75rem 0; }
  .me { font-weight: 600; }
  .gone { color: #999; text-decoration: line-through; }
  #qr img { margin-top: 0.5rem; }
</style>
</head>
<body>
<h1>Undercover</h1>
<div id="status">Connecting…</div>

<div id="screen-join" class="screen active">
  <input id="name" placeholder="Your name" maxlength="32">
  <br>
  <button id="create">Create room</button>
  <br>
  <input id="code" placeholder="Room code" maxlength="8" style="text-transform:uppercase">
  <button id="join">Join room</button>
</div>

<div id="screen-lobby" class="screen">
  <p>Room <b id="lobby-code"></b> — round <span id="round">0</span></p>
  <ul id="players"></ul>
  <button id="start" style="display:none">Start round</button>
  <button id="share">Show QR</button>
  <div id="qr"></div>
</div>

<div id="screen-submit" class="screen">
  <div class="prompt" id="prompt"></div>
  <input id="answer" placeholder="Your answer" maxlength="80">
  <button id="submit">Submit</button>
  <p id="progress"></p>
</div>

<div id="screen-vote" class="screen">
  <p>Common prompt: <b id="common"></b></p>
  <p>Odd prompt: <b id="odd"></b></p>
  <ul id="answers"></ul>
  <p>Who had the odd prompt?</p>
  <div id="targets"></div>
</div>

<div id="screen-results" class="screen">
  <p id="verdict"></p>
  <ul id="scores"></ul>
  <button id="next" style="display:none">Next round</button>
</div>

<script>
(function() {
  const statusEl = document.getElementById('status');
  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const wsPath = location.pathname.replace(/\/$/, '') + '/ws';
  const ws = new WebSocket(proto + location.host + wsPath);

  let myId = '';
  let roomCode = '';
  let state = null;
  let reveal = null;
  let nextReq = 1;
  const pending = {};

  function send(type, fields, cb) {
    const msg = Object.assign({ type: type, requestId: String(nextReq++) }, fields || {});
    if (cb) pending[msg.requestId] = cb;
    ws.send(JSON.stringify(msg));
  }

  function show(name) {
    document.querySelectorAll('.screen').forEach(function(el) {
      el.classList.toggle('active', el.id === 'screen-' + name);
    });
  }

  function renderPlayers() {
    const ul = document.getElementById('players');
    ul.innerHTML = '';
    state.players.forEach(function(p) {
      const li = document.createElement('li');
      li.textContent = p.name + (p.id === state.hostId ? ' (host)' : '') + ' — ' + p.score;
      if (p.id === myId) li.classList.add('me');
      if (!p.connected) li.classList.add('gone');
      ul.appendChild(li);
    });
    document.getElementById('start').style.display = (state.hostId === myId) ? '' : 'none';
  }

  function render() {
    if (!state) return;
    roomCode = state.code;
    document.getElementById('lobby-code').textContent = state.code;
    document.getElementById('round').textContent = state.round;

    if (state.status === 'lobby') {
      renderPlayers();
      show('lobby');
    } else if (state.status === 'submit') {
      const connected = state.players.filter(function(p) { return p.connected; }).length;
      document.getElementById('progress').textContent = state.submitted + ' of ' + connected + ' answers in';
      show('submit');
    } else if (state.status === 'reveal' || state.status === 'vote') {
      show('vote');
    } else if (state.status === 'results') {
      renderResults();
      show('results');
    }
  }

  function renderReveal() {
    document.getElementById('common').textContent = reveal.pair.common;
    document.getElementById('odd').textContent = reveal.pair.odd;
    const ul = document.getElementById('answers');
    ul.innerHTML = '';
    reveal.answers.forEach(function(a) {
      const li = document.createElement('li');
      li.textContent = a.name + ': ' + a.text;
      ul.appendChild(li);
    });
    const targets = document.getElementById('targets');
    targets.innerHTML = '';
    reveal.answers.forEach(function(a) {
      const btn = document.createElement('button');
      btn.textContent = a.name;
      btn.onclick = function() { send('round:vote', { code: roomCode, targetId: a.playerId }); };
      targets.appendChild(btn);
    });
  }

  function renderResults() {
    const res = state.lastResults;
    if (!res) return;
    const odd = state.players.find(function(p) { return p.id === res.oddPlayerId; });
    const oddName = odd ? odd.name : '?';
    document.getElementById('verdict').textContent = res.correct
      ? 'Caught! ' + oddName + ' had the odd prompt.'
      : 'Fooled you — it was ' + oddName + '. They score.';
    const ul = document.getElementById('scores');
    ul.innerHTML = '';
    state.players.forEach(function(p) {
      const li = document.createElement('li');
      li.textContent = p.name + ' — ' + p.score;
      ul.appendChild(li);
    });
    document.getElementById('next').style.display = (state.hostId === myId) ? '' : 'none';
  }

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';
    const prefill = new URLSearchParams(location.search).get('room');
    if (prefill) document.getElementById('code').value = prefill;
  };

  ws.onmessage = function(event) {
    const msg = JSON.parse(event.data);

    if (msg.type === 'ack') {
      const cb = pending[msg.requestId];
      delete pending[msg.requestId];
      if (msg.error) { statusEl.textContent = msg.error; return; }
      if (cb) cb(msg);
      return;
    }

    if (msg.type === 'session') {
      myId = msg.payload.id;
    } else if (msg.type === 'room:update') {
      state = msg.payload;
      render();
    } else if (msg.type === 'round:prompt') {
      document.getElementById('prompt').textContent = msg.payload.prompt;
      document.getElementById('answer').value = '';
    } else if (msg.type === 'round:reveal') {
      reveal = msg.payload;
      renderReveal();
    }
  };

  ws.onclose = function() { statusEl.textContent = 'Disconnected.'; };
  ws.onerror = function() { statusEl.textContent = 'Error with WebSocket.'; };

  document.getElementById('create').onclick = function() {
    send('room:create', { name: document.getElementById('name').value });
  };
  document.getElementById('join').onclick = function() {
    send('room:join', {
      code: document.getElementById('code').value,
      name: document.getElementById('name').value
    });
  };
  document.getElementById('start').onclick = function() {
    send('round:start', { code: roomCode });
  };
  document.getElementById('next').onclick = function() {
    send('round:start', { code: roomCode });
  };
  document.getElementById('submit').onclick = function() {
    send('round:submitAnswer', { code: roomCode, answer: document.getElementById('answer').value });
  };
  document.getElementById('share').onclick = function() {
    const qr = document.getElementById('qr');
    qr.innerHTML = '';
    const img = document.createElement('img');
    img.src = location.pathname.replace(/\/$/, '') + '/qr/' + roomCode;
    img.alt = 'Room ' + roomCode;
    qr.appendChild(img);
  };
})();
</script>
</body>
</html>
`
